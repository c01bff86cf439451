package likes_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/likehub/likesbot/internal/database"
	"github.com/likehub/likesbot/internal/likes"
)

// fakeClient returns canned results per game id.
type fakeClient struct {
	results map[string]*likes.Result
	err     error
}

func (c *fakeClient) SendLikes(_ context.Context, gameID, _ string) (*likes.Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	r, ok := c.results[gameID]
	if !ok {
		return nil, fmt.Errorf("no canned result for %s", gameID)
	}
	return r, nil
}

// recordingStore is a Store stub that captures RecordDelivery calls.
type recordingStore struct {
	database.Store
	records   []*database.SendRecord
	recordErr error
}

func (s *recordingStore) RecordDelivery(_ context.Context, rec *database.SendRecord) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.records = append(s.records, rec)
	return nil
}

func newTestService(t *testing.T, client likes.Client, store *recordingStore) *likes.Service {
	t.Helper()

	ks := likes.NewKeystore(filepath.Join(t.TempDir(), "api_key.txt"))
	if err := ks.Save("test-key"); err != nil {
		t.Fatalf("seeding keystore: %v", err)
	}
	return likes.NewService(store, client, ks, 100, discardLogger())
}

func TestDeliverClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		result      *likes.Result
		wantOutcome likes.Outcome
		wantSuccess bool
	}{
		{
			name:        "full delivery",
			result:      &likes.Result{Success: true, Player: "P1", LikesAdded: 100},
			wantOutcome: likes.OutcomeDelivered,
			wantSuccess: true,
		},
		{
			name:        "insufficient likes",
			result:      &likes.Result{Success: false, Error: "INSUFFICIENT_LIKES", LikesAdded: 30, MinLikesRequired: 100},
			wantOutcome: likes.OutcomeInsufficient,
		},
		{
			name:        "api failure",
			result:      &likes.Result{Success: false, Error: "INVALID_UID", Message: "player not found"},
			wantOutcome: likes.OutcomeFailed,
		},
		{
			name:        "success below minimum counts as delivered only at threshold",
			result:      &likes.Result{Success: true, LikesAdded: 99},
			wantOutcome: likes.OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &recordingStore{}
			svc := newTestService(t, &fakeClient{results: map[string]*likes.Result{"111": tt.result}}, store)

			d, err := svc.Deliver(context.Background(), 1001, "111", false)
			if err != nil {
				t.Fatalf("Deliver() = %v", err)
			}
			if d.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", d.Outcome, tt.wantOutcome)
			}

			if len(store.records) != 1 {
				t.Fatalf("recorded %d deliveries, want 1", len(store.records))
			}
			rec := store.records[0]
			if rec.Success != tt.wantSuccess {
				t.Errorf("recorded Success = %v, want %v", rec.Success, tt.wantSuccess)
			}
			if rec.TelegramID != 1001 || rec.GameID != "111" {
				t.Errorf("recorded owner/id = %d/%s", rec.TelegramID, rec.GameID)
			}
		})
	}
}

func TestDeliverTransportFailure(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	svc := newTestService(t, &fakeClient{err: errors.New("connection refused")}, store)

	d, err := svc.Deliver(context.Background(), 1001, "111", true)
	if err != nil {
		t.Fatalf("Deliver() = %v, transport failures should still be recorded", err)
	}
	if d.Outcome != likes.OutcomeFailed {
		t.Errorf("Outcome = %v, want OutcomeFailed", d.Outcome)
	}
	if d.Reason == "" {
		t.Error("Reason should describe the transport failure")
	}
	if len(store.records) != 1 || store.records[0].Success {
		t.Errorf("failure should be recorded as unsuccessful, records = %+v", store.records)
	}
	if !store.records[0].Automatic {
		t.Error("Automatic flag should be carried into the record")
	}
}

func TestDeliverWithoutKey(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	ks := likes.NewKeystore(filepath.Join(t.TempDir(), "api_key.txt"))
	svc := likes.NewService(store, &fakeClient{}, ks, 100, discardLogger())

	_, err := svc.Deliver(context.Background(), 1001, "111", false)
	if !errors.Is(err, likes.ErrNoKey) {
		t.Errorf("Deliver() = %v, want ErrNoKey", err)
	}
	if len(store.records) != 0 {
		t.Error("nothing should be recorded without an API key")
	}
}

func TestDeliverRecordFailure(t *testing.T) {
	t.Parallel()

	store := &recordingStore{recordErr: errors.New("disk full")}
	svc := newTestService(t, &fakeClient{results: map[string]*likes.Result{
		"111": {Success: true, LikesAdded: 100},
	}}, store)

	if _, err := svc.Deliver(context.Background(), 1001, "111", false); err == nil {
		t.Error("Deliver() should fail when the delivery cannot be recorded")
	}
}
