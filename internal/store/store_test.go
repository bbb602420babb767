package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/models"
)

// recordingSink captures every snapshot pushed by Update.
type recordingSink struct {
	saved []*models.State
	err   error
}

func (r *recordingSink) Save(ctx context.Context, st *models.State) error {
	r.saved = append(r.saved, st)
	return r.err
}

func TestUpdate_CommitsAndSnapshots(t *testing.T) {
	sink := &recordingSink{}
	st := New(models.NewState(), sink, nil)

	id := uuid.New()
	err := st.Update(context.Background(), func(s *models.State) error {
		s.Accounts = append(s.Accounts, &models.Account{ID: id, Name: "Ali", CreatedAt: time.Now().UTC()})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(sink.saved) != 1 {
		t.Fatalf("snapshots: got %d, want 1", len(sink.saved))
	}

	// The snapshot is a deep copy: mutating it must not leak into the store.
	sink.saved[0].Accounts[0].Name = "mutated"
	st.View(func(s *models.State) {
		if s.Accounts[0].Name != "Ali" {
			t.Errorf("store state mutated through snapshot: %q", s.Accounts[0].Name)
		}
	})
}

func TestUpdate_RejectedMutationIsNotSnapshotted(t *testing.T) {
	sink := &recordingSink{}
	st := New(models.NewState(), sink, nil)
	sentinel := errors.New("rejected")

	err := st.Update(context.Background(), func(s *models.State) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want sentinel error", err)
	}
	if len(sink.saved) != 0 {
		t.Errorf("rejected update must not snapshot, got %d", len(sink.saved))
	}
}

func TestUpdate_SinkFailureDoesNotFailTheCommit(t *testing.T) {
	sink := &recordingSink{err: errors.New("db down")}
	st := New(models.NewState(), sink, nil)

	err := st.Update(context.Background(), func(s *models.State) error {
		s.Settings.Notice = "updated"
		return nil
	})
	if err != nil {
		t.Fatalf("commit should survive a sink failure, got: %v", err)
	}
	st.View(func(s *models.State) {
		if s.Settings.Notice != "updated" {
			t.Errorf("mutation lost: %q", s.Settings.Notice)
		}
	})
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	st := New(models.NewState(), nil, nil)
	snap := st.Snapshot()
	snap.Settings.SiteName = "changed"
	st.View(func(s *models.State) {
		if s.Settings.SiteName == "changed" {
			t.Error("Snapshot should return an independent copy")
		}
	})
}
