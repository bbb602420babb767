package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/middleware"
)

// WalletHandler serves deposit and withdrawal submission plus history.
type WalletHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// --- POST /api/v1/wallet/deposits ---

type submitDepositRequest struct {
	AmountCents int64  `json:"amount_cents"`
	TxRef       string `json:"tx_ref"`
}

func (h *WalletHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req submitDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.AmountCents <= 0 || req.TxRef == "" {
		http.Error(w, `{"error":"missing amount or transaction reference"}`, http.StatusBadRequest)
		return
	}
	dep, err := h.Engine.SubmitDeposit(r.Context(), acc.ID, req.AmountCents, req.TxRef)
	if err != nil {
		writeEngineError(w, h.Logger, "submit deposit", err)
		return
	}
	writeJSON(w, http.StatusCreated, dep)
}

// --- POST /api/v1/wallet/withdrawals ---

type submitWithdrawalRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Destination string `json:"destination"`
}

func (h *WalletHandler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req submitWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.AmountCents <= 0 || req.Destination == "" {
		http.Error(w, `{"error":"missing amount or destination"}`, http.StatusBadRequest)
		return
	}
	wd, err := h.Engine.SubmitWithdrawal(r.Context(), acc.ID, req.AmountCents, req.Destination)
	if err != nil {
		writeEngineError(w, h.Logger, "submit withdrawal", err)
		return
	}
	writeJSON(w, http.StatusCreated, wd)
}

// --- GET /api/v1/wallet/history ---

func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.Engine.WalletHistory(acc.ID))
}

// --- helpers ---

// writeEngineError maps engine sentinels to HTTP statuses. Unknown errors
// become 500 and are logged.
func writeEngineError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, engine.ErrAmountOutOfRange):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "amount out of range"})
	case errors.Is(err, engine.ErrInsufficientFunds):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "insufficient funds"})
	case errors.Is(err, engine.ErrAlreadyDecided):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already decided"})
	case errors.Is(err, engine.ErrMissingProof):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing proof"})
	case errors.Is(err, engine.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		if log == nil {
			log = slog.Default()
		}
		log.Error(op+" failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
