package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/middleware"
)

// TaskHandler serves the task catalog and the two earning flows: timed ad
// views (auto-credited after the duration elapses) and link-proof
// submissions (credited on admin approval).
type TaskHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// --- GET /api/v1/tasks ---

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.ListTasks())
}

// --- POST /api/v1/tasks/{id}/start ---

type startTaskResponse struct {
	Token           string `json:"token"`
	DurationSeconds int    `json:"duration_seconds"`
	RewardCents     int64  `json:"reward_cents"`
}

// StartTask hands out a timed-task completion token. The reward lands once
// the scheduled completion fires; the handler itself never waits.
func (h *TaskHandler) StartTask(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}
	view, err := h.Engine.StartTimedTask(r.Context(), acc.ID, taskID)
	if err != nil {
		writeEngineError(w, h.Logger, "start timed task", err)
		return
	}
	var duration int
	for _, t := range h.Engine.ListTasks() {
		if t.ID == taskID {
			duration = t.DurationSeconds
		}
	}
	writeJSON(w, http.StatusAccepted, startTaskResponse{
		Token:           view.Token.String(),
		DurationSeconds: duration,
		RewardCents:     view.RewardCents,
	})
}

// --- POST /api/v1/tasks/{id}/proof ---

type submitProofRequest struct {
	ProofRef string `json:"proof_ref"`
}

func (h *TaskHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}
	var req submitProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	sub, err := h.Engine.SubmitProof(r.Context(), acc.ID, taskID, req.ProofRef)
	if err != nil {
		writeEngineError(w, h.Logger, "submit proof", err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}
