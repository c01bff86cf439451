package likes

import (
	"fmt"
	"strings"
)

// FormatNumber renders n with dots as thousands separators (15162 -> "15.162").
func FormatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// StatusText converts the API's numeric player status to text.
func StatusText(status int) string {
	if status == 1 {
		return "Online"
	}
	return "Offline"
}

// FormatDelivery renders the result of a single delivery attempt as a
// user-facing message.
func FormatDelivery(d *Delivery) string {
	switch d.Outcome {
	case OutcomeDelivered:
		r := d.Result
		return fmt.Sprintf(
			"✅ Likes delivered!\n\n"+
				"👤 Player: %s\n🆔 UID: %s\n🌎 Region: %s\n\n"+
				"💖 Likes: %s → %s (+%d)\n⭐ Level %d | EXP %s | %s",
			orNA(r.Player), orNA(r.UID), orNA(r.Region),
			FormatNumber(int64(r.InitialLikes)), FormatNumber(int64(r.FinalLikes)), r.LikesAdded,
			r.Level, FormatNumber(r.EXP), StatusText(r.Status))

	case OutcomeInsufficient:
		r := d.Result
		min := r.MinLikesRequired
		return fmt.Sprintf(
			"⚠️ Partial delivery for %s\n\n"+
				"👤 Player: %s\n💔 Only %d likes delivered (minimum %d)\n"+
				"❌ This delivery was not counted. Try again later.",
			d.GameID, orNA(r.Player), r.LikesAdded, min)

	default:
		return fmt.Sprintf(
			"❌ Delivery failed for %s\n\n⚠️ %s\n\n"+
				"Check the ID and try again, or contact the administrator.",
			d.GameID, d.Reason)
	}
}

// FormatSummary renders the per-user summary sent after the automatic
// midnight run.
func FormatSummary(deliveries []*Delivery) string {
	var b strings.Builder
	b.WriteString("🌙 Automatic midnight delivery\n")

	totalLikes := 0
	delivered := 0
	for i, d := range deliveries {
		b.WriteString(fmt.Sprintf("\n#%d — %s\n", i+1, d.GameID))
		switch d.Outcome {
		case OutcomeDelivered:
			delivered++
			totalLikes += d.Result.LikesAdded
			b.WriteString(fmt.Sprintf("✅ %s: %s → %s (+%d)\n",
				orNA(d.Result.Player),
				FormatNumber(int64(d.Result.InitialLikes)),
				FormatNumber(int64(d.Result.FinalLikes)),
				d.Result.LikesAdded))
		case OutcomeInsufficient:
			b.WriteString(fmt.Sprintf("⚠️ only %d likes, not counted\n", d.Result.LikesAdded))
		default:
			b.WriteString(fmt.Sprintf("❌ %s\n", d.Reason))
		}
	}

	b.WriteString(fmt.Sprintf("\n📊 %d/%d delivered, %s likes total",
		delivered, len(deliveries), FormatNumber(int64(totalLikes))))
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
