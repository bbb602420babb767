package referral

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/models"
	"github.com/hammadpk/engine/internal/store"
)

// MemberSummary is one direct referee of a referral code.
type MemberSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// Graph is a read-only projection over the account store: referral linkage
// is captured at registration and never mutated, so the graph needs no
// state of its own.
type Graph struct {
	store *store.Store
}

func New(st *store.Store) *Graph {
	return &Graph{store: st}
}

// TeamOf returns the accounts whose referred-by equals code, ordered by
// join date. Later edits to the referring account do not affect the result.
func (g *Graph) TeamOf(code string) []MemberSummary {
	var team []MemberSummary
	if code == "" {
		return team
	}
	g.store.View(func(st *models.State) {
		for _, a := range st.Accounts {
			if a.ReferredBy == code {
				team = append(team, MemberSummary{ID: a.ID, Name: a.Name, JoinedAt: a.CreatedAt})
			}
		}
	})
	sort.Slice(team, func(i, j int) bool { return team[i].JoinedAt.Before(team[j].JoinedAt) })
	return team
}
