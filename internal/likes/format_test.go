package likes_test

import (
	"strings"
	"testing"

	"github.com/likehub/likesbot/internal/likes"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1.000"},
		{15162, "15.162"},
		{1234567, "1.234.567"},
		{-1000, "-1.000"},
	}

	for _, tt := range tests {
		if got := likes.FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDelivery(t *testing.T) {
	t.Parallel()

	t.Run("delivered", func(t *testing.T) {
		t.Parallel()
		got := likes.FormatDelivery(&likes.Delivery{
			GameID:  "111",
			Outcome: likes.OutcomeDelivered,
			Result: &likes.Result{
				Player: "PlayerOne", UID: "111", Region: "BR",
				InitialLikes: 100, LikesAdded: 100, FinalLikes: 200,
				Level: 60, EXP: 1500000, Status: 1,
			},
		})
		for _, want := range []string{"PlayerOne", "BR", "+100", "200", "Online"} {
			if !strings.Contains(got, want) {
				t.Errorf("FormatDelivery() missing %q in %q", want, got)
			}
		}
	})

	t.Run("insufficient", func(t *testing.T) {
		t.Parallel()
		got := likes.FormatDelivery(&likes.Delivery{
			GameID:  "111",
			Outcome: likes.OutcomeInsufficient,
			Result:  &likes.Result{Player: "PlayerOne", LikesAdded: 30, MinLikesRequired: 100},
		})
		if !strings.Contains(got, "30") || !strings.Contains(got, "100") {
			t.Errorf("FormatDelivery() should show the partial count and minimum, got %q", got)
		}
	})

	t.Run("failed", func(t *testing.T) {
		t.Parallel()
		got := likes.FormatDelivery(&likes.Delivery{
			GameID:  "111",
			Outcome: likes.OutcomeFailed,
			Reason:  "player not found",
		})
		if !strings.Contains(got, "player not found") {
			t.Errorf("FormatDelivery() should include the failure reason, got %q", got)
		}
	})
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	got := likes.FormatSummary([]*likes.Delivery{
		{
			GameID:  "111",
			Outcome: likes.OutcomeDelivered,
			Result:  &likes.Result{Player: "P1", InitialLikes: 100, LikesAdded: 100, FinalLikes: 200},
		},
		{
			GameID:  "222",
			Outcome: likes.OutcomeInsufficient,
			Result:  &likes.Result{LikesAdded: 30},
		},
		{
			GameID:  "333",
			Outcome: likes.OutcomeFailed,
			Reason:  "timeout",
		},
	})

	if !strings.Contains(got, "1/3 delivered") {
		t.Errorf("summary should count delivered ids, got %q", got)
	}
	for _, want := range []string{"111", "222", "333", "timeout"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q in %q", want, got)
		}
	}
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	if got := likes.StatusText(1); got != "Online" {
		t.Errorf("StatusText(1) = %q", got)
	}
	if got := likes.StatusText(0); got != "Offline" {
		t.Errorf("StatusText(0) = %q", got)
	}
}
