package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hammadpk/engine/internal/auth"
	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/middleware"
	"github.com/hammadpk/engine/internal/referral"
)

// AccountHandler serves the authenticated user's own profile, credential
// change and referral team view.
type AccountHandler struct {
	Engine  *engine.Engine
	AuthSvc auth.Service
	Graph   *referral.Graph
	Logger  *slog.Logger
}

// --- GET /api/v1/account/me ---

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	settings := h.Engine.Settings()
	writeJSON(w, http.StatusOK, map[string]any{
		"account":   auth.AccountToResponse(acc),
		"plans":     h.Engine.Plans(),
		"site_name": settings.SiteName,
		"notice":    settings.Notice,
	})
}

// --- POST /api/v1/account/password ---

type changePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := h.AuthSvc.ChangePassword(r.Context(), acc.ID, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			http.Error(w, `{"error":"password too short"}`, http.StatusBadRequest)
			return
		}
		writeEngineError(w, h.Logger, "change password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- GET /api/v1/team ---

func (h *AccountHandler) Team(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	members := h.Graph.TeamOf(acc.ReferralCode)
	writeJSON(w, http.StatusOK, map[string]any{
		"referral_code": acc.ReferralCode,
		"members":       members,
		"count":         len(members),
	})
}
