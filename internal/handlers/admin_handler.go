package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/auth"
	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/models"
)

// AdminHandler serves the administrative command surface. Every route is
// gated by middleware.RequireAdmin; the handler trusts the capability check
// has already run.
type AdminHandler struct {
	Engine  *engine.Engine
	AuthSvc auth.Service
	Logger  *slog.Logger
}

// --- GET /api/v1/admin/overview ---

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.AdminOverview())
}

// --- GET /api/v1/admin/users ---

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.Engine.ListUsers()
	resp := make([]auth.AccountResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, auth.AccountToResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- PATCH /api/v1/admin/users/{id} ---

type updateUserRequest struct {
	BalanceCents *int64  `json:"balance_cents"`
	Password     *string `json:"password"`
	Banned       *bool   `json:"banned"`
}

// UpdateUser applies the admin overrides from the original panel: direct
// balance edit, credential reset, ban/unban.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.BalanceCents != nil {
		if _, err := h.Engine.SetUserBalance(r.Context(), id, *req.BalanceCents); err != nil {
			writeEngineError(w, h.Logger, "set user balance", err)
			return
		}
	}
	if req.Password != nil {
		if err := h.AuthSvc.ChangePassword(r.Context(), id, *req.Password); err != nil {
			if errors.Is(err, auth.ErrWeakPassword) {
				http.Error(w, `{"error":"password too short"}`, http.StatusBadRequest)
				return
			}
			writeEngineError(w, h.Logger, "reset user password", err)
			return
		}
	}
	if req.Banned != nil {
		if _, err := h.Engine.SetUserBanned(r.Context(), id, *req.Banned); err != nil {
			writeEngineError(w, h.Logger, "set user banned", err)
			return
		}
	}
	acct, err := h.Engine.GetAccount(id)
	if err != nil {
		writeEngineError(w, h.Logger, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, auth.AccountToResponse(acct))
}

// --- GET/POST /api/v1/admin/tasks, DELETE /api/v1/admin/tasks/{id} ---

type createTaskRequest struct {
	Title           string `json:"title"`
	RewardCents     int64  `json:"reward_cents"`
	Category        string `json:"category"`
	DurationSeconds int    `json:"duration_seconds"`
	Link            string `json:"link"`
}

func (h *AdminHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, `{"error":"missing title"}`, http.StatusBadRequest)
		return
	}
	task, err := h.Engine.CreateTask(r.Context(), req.Title, req.RewardCents, req.Category, req.DurationSeconds, req.Link)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidCategory) {
			http.Error(w, `{"error":"invalid task category"}`, http.StatusBadRequest)
			return
		}
		writeEngineError(w, h.Logger, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	RewardCents *int64  `json:"reward_cents"`
	Link        *string `json:"link"`
}

func (h *AdminHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	task, err := h.Engine.UpdateTask(r.Context(), id, engine.TaskUpdate{
		Title:       req.Title,
		RewardCents: req.RewardCents,
		Link:        req.Link,
	})
	if err != nil {
		writeEngineError(w, h.Logger, "update task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *AdminHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}
	if err := h.Engine.DeleteTask(r.Context(), id); err != nil {
		writeEngineError(w, h.Logger, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- review queues ---

func (h *AdminHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.ListDeposits(r.URL.Query().Get("status") == models.StatusPending))
}

func (h *AdminHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.ListWithdrawals(r.URL.Query().Get("status") == models.StatusPending))
}

func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.ListSubmissions(r.URL.Query().Get("status") == models.StatusPending))
}

// --- decide endpoints ---

type decideRequest struct {
	Outcome string `json:"outcome"` // approved | rejected
}

func parseDecide(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return uuid.Nil, false, false
	}
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return uuid.Nil, false, false
	}
	switch req.Outcome {
	case models.StatusApproved:
		return id, true, true
	case models.StatusRejected:
		return id, false, true
	default:
		http.Error(w, `{"error":"outcome must be approved or rejected"}`, http.StatusBadRequest)
		return uuid.Nil, false, false
	}
}

func (h *AdminHandler) DecideDeposit(w http.ResponseWriter, r *http.Request) {
	id, approve, ok := parseDecide(w, r)
	if !ok {
		return
	}
	dep, err := h.Engine.DecideDeposit(r.Context(), id, approve)
	if err != nil {
		writeEngineError(w, h.Logger, "decide deposit", err)
		return
	}
	writeJSON(w, http.StatusOK, dep)
}

func (h *AdminHandler) DecideWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, approve, ok := parseDecide(w, r)
	if !ok {
		return
	}
	wd, err := h.Engine.DecideWithdrawal(r.Context(), id, approve)
	if err != nil {
		writeEngineError(w, h.Logger, "decide withdrawal", err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

func (h *AdminHandler) DecideSubmission(w http.ResponseWriter, r *http.Request) {
	id, approve, ok := parseDecide(w, r)
	if !ok {
		return
	}
	sub, err := h.Engine.DecideSubmission(r.Context(), id, approve)
	if err != nil {
		writeEngineError(w, h.Logger, "decide submission", err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// --- PUT /api/v1/admin/settings ---

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s models.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := h.Engine.UpdateSettings(r.Context(), s); err != nil {
		writeEngineError(w, h.Logger, "update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Engine.Settings())
}
