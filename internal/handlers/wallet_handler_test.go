package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/middleware"
	"github.com/hammadpk/engine/internal/models"
	"github.com/hammadpk/engine/internal/store"
)

func newWalletFixture(t *testing.T, balanceCents int64) (*WalletHandler, *models.Account) {
	t.Helper()
	st := store.New(models.NewState(), nil, nil)
	acct := &models.Account{
		ID:           uuid.New(),
		Name:         "Ali",
		Email:        "ali@example.com",
		BalanceCents: balanceCents,
		PlanID:       1,
		ReferralCode: "AAA111",
		CreatedAt:    time.Now().UTC(),
	}
	err := st.Update(context.Background(), func(s *models.State) error {
		s.Accounts = append(s.Accounts, acct)
		s.Settings.MinDepositCents = 500
		s.Settings.MaxDepositCents = 50_000
		s.Settings.MinWithdrawCents = 1_000
		s.Settings.MaxWithdrawCents = 25_000
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &WalletHandler{Engine: engine.New(st, nil, nil)}, acct
}

func authedRequest(method, target, body string, acct *models.Account) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithAccount(req.Context(), acct))
}

func TestSubmitDeposit_Created(t *testing.T) {
	h, acct := newWalletFixture(t, 0)

	rec := httptest.NewRecorder()
	h.SubmitDeposit(rec, authedRequest(http.MethodPost, "/api/v1/wallet/deposits",
		`{"amount_cents":1000,"tx_ref":"TRX-001"}`, acct))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var dep models.DepositRequest
	if err := json.NewDecoder(rec.Body).Decode(&dep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dep.Status != models.StatusPending {
		t.Errorf("status: got %q, want pending", dep.Status)
	}
	if dep.AmountCents != 1000 || dep.TxRef != "TRX-001" {
		t.Errorf("unexpected body: %+v", dep)
	}
}

func TestSubmitDeposit_Validation(t *testing.T) {
	h, acct := newWalletFixture(t, 0)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"out of range", `{"amount_cents":1,"tx_ref":"TRX"}`, http.StatusUnprocessableEntity},
		{"missing tx ref", `{"amount_cents":1000}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.SubmitDeposit(rec, authedRequest(http.MethodPost, "/api/v1/wallet/deposits", tc.body, acct))
			if rec.Code != tc.want {
				t.Errorf("status: got %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestSubmitDeposit_Unauthenticated(t *testing.T) {
	h, _ := newWalletFixture(t, 0)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposits",
		strings.NewReader(`{"amount_cents":1000,"tx_ref":"TRX"}`))
	h.SubmitDeposit(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestSubmitWithdrawal_InsufficientFunds(t *testing.T) {
	h, acct := newWalletFixture(t, 500)

	rec := httptest.NewRecorder()
	h.SubmitWithdrawal(rec, authedRequest(http.MethodPost, "/api/v1/wallet/withdrawals",
		`{"amount_cents":1500,"destination":"ACC-1"}`, acct))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422, body %s", rec.Code, rec.Body.String())
	}
}

func TestHistory_ReturnsTaggedEntries(t *testing.T) {
	h, acct := newWalletFixture(t, 5_000)
	ctx := context.Background()

	if _, err := h.Engine.SubmitDeposit(ctx, acct.ID, 1_000, "TRX-1"); err != nil {
		t.Fatalf("SubmitDeposit: %v", err)
	}
	if _, err := h.Engine.SubmitWithdrawal(ctx, acct.ID, 1_500, "ACC-1"); err != nil {
		t.Fatalf("SubmitWithdrawal: %v", err)
	}

	rec := httptest.NewRecorder()
	h.History(rec, authedRequest(http.MethodGet, "/api/v1/wallet/history", "", acct))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var entries []models.HistoryEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Kind != models.KindDeposit && e.Kind != models.KindWithdrawal {
			t.Errorf("entry without kind tag: %+v", e)
		}
	}
}
