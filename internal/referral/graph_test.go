package referral

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/models"
	"github.com/hammadpk/engine/internal/store"
)

func addAccount(t *testing.T, st *store.Store, name, code, referredBy string, joined time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := st.Update(context.Background(), func(s *models.State) error {
		s.Accounts = append(s.Accounts, &models.Account{
			ID:           id,
			Name:         name,
			Email:        name + "@example.com",
			ReferralCode: code,
			ReferredBy:   referredBy,
			CreatedAt:    joined,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("add account: %v", err)
	}
	return id
}

func TestTeamOf_DirectRefereesInJoinOrder(t *testing.T) {
	st := store.New(models.NewState(), nil, nil)
	g := New(st)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	addAccount(t, st, "referrer", "AAA111", "", base)
	late := addAccount(t, st, "late", "CCC333", "AAA111", base.Add(48*time.Hour))
	early := addAccount(t, st, "early", "BBB222", "AAA111", base.Add(time.Hour))
	addAccount(t, st, "unrelated", "DDD444", "ZZZ999", base.Add(2*time.Hour))
	// Indirect referee: joined via early's code, not the referrer's.
	addAccount(t, st, "indirect", "EEE555", "BBB222", base.Add(3*time.Hour))

	team := g.TeamOf("AAA111")
	if len(team) != 2 {
		t.Fatalf("team size: got %d, want 2", len(team))
	}
	if team[0].ID != early || team[1].ID != late {
		t.Errorf("team order: got [%s %s], want earliest join first", team[0].Name, team[1].Name)
	}
}

func TestTeamOf_EmptyCodeAndNoMatches(t *testing.T) {
	st := store.New(models.NewState(), nil, nil)
	g := New(st)
	addAccount(t, st, "orphan", "AAA111", "", time.Now().UTC())

	if team := g.TeamOf(""); len(team) != 0 {
		t.Errorf("empty code should match nothing, got %d members", len(team))
	}
	if team := g.TeamOf("NOSUCH"); len(team) != 0 {
		t.Errorf("unknown code should match nothing, got %d members", len(team))
	}
}

func TestTeamOf_SurvivesReferrerEdits(t *testing.T) {
	st := store.New(models.NewState(), nil, nil)
	g := New(st)
	base := time.Now().UTC()

	referrer := addAccount(t, st, "referrer", "AAA111", "", base)
	addAccount(t, st, "referee", "BBB222", "AAA111", base.Add(time.Hour))

	// Ban the referrer and change its name; linkage is by captured code and
	// must not change.
	err := st.Update(context.Background(), func(s *models.State) error {
		a := s.AccountByID(referrer)
		a.IsBanned = true
		a.Name = "renamed"
		return nil
	})
	if err != nil {
		t.Fatalf("edit referrer: %v", err)
	}

	team := g.TeamOf("AAA111")
	if len(team) != 1 {
		t.Fatalf("team size after edits: got %d, want 1", len(team))
	}
	if team[0].Name != "referee" {
		t.Errorf("member: got %q, want referee", team[0].Name)
	}
}
