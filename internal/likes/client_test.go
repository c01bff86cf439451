package likes_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/likehub/likesbot/internal/config"
	"github.com/likehub/likesbot/internal/likes"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) likes.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return likes.NewClient(config.APIConfig{
		BaseURL:  srv.URL,
		Endpoint: "/api/sendlikes",
		Timeout:  5 * time.Second,
	}, discardLogger())
}

func TestSendLikesSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sendlikes" {
			t.Errorf("path = %q, want /api/sendlikes", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "5551234567" {
			t.Errorf("id = %q, want 5551234567", got)
		}
		if got := r.URL.Query().Get("key"); got != "secret-key" {
			t.Errorf("key = %q, want secret-key", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true, "player": "PlayerOne", "uid": "5551234567",
			"region": "BR", "initialLikes": 100, "likesAdded": 100,
			"finalLikes": 200, "level": 60, "exp": 1500000, "status": 1
		}`))
	})

	result, err := client.SendLikes(context.Background(), "5551234567", "secret-key")
	if err != nil {
		t.Fatalf("SendLikes() = %v", err)
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if result.Player != "PlayerOne" || result.LikesAdded != 100 || result.FinalLikes != 200 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSendLikesAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"success": false, "error": "INSUFFICIENT_LIKES",
			"message": "only 30 likes available", "likesAdded": 30, "minLikesRequired": 100
		}`))
	})

	result, err := client.SendLikes(context.Background(), "5551234567", "secret-key")
	if err != nil {
		t.Fatalf("SendLikes() = %v, API-level failures should not be transport errors", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Error != "INSUFFICIENT_LIKES" {
		t.Errorf("Error = %q, want INSUFFICIENT_LIKES", result.Error)
	}
}

func TestSendLikesMalformedResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	})

	if _, err := client.SendLikes(context.Background(), "5551234567", "secret-key"); err == nil {
		t.Error("SendLikes() should fail on a non-JSON response")
	}
}

func TestSendLikesContextCancelled(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.SendLikes(ctx, "5551234567", "secret-key"); err == nil {
		t.Error("SendLikes() should fail when the context is cancelled")
	}
}
