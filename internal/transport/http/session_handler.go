package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/logger"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var errInvalidBody = errors.New("invalid request body")

// SessionHandler exposes interview sessions over REST.
type SessionHandler struct {
	service *app.InterviewService
	logger  *zap.Logger
}

func NewSessionHandler(service *app.InterviewService, l *zap.Logger) *SessionHandler {
	return &SessionHandler{service: service, logger: logger.OrNop(l)}
}

type createRequest struct {
	CatalogID string `json:"catalogId"`
}

type answerPayload struct {
	QuestionID int    `json:"questionId"`
	Text       string `json:"text"`
}

type presencePayload struct {
	Visible bool `json:"visible"`
}

type answerResult struct {
	Response domain.Response `json:"response"`
	Session  domain.Snapshot `json:"session"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Message: errInvalidBody.Error()})
			return
		}
	}
	snap, err := h.service.Create(r.Context(), req.CatalogID)
	if err != nil {
		h.logger.Warn("create session failed", zap.String("catalog_id", req.CatalogID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Submit handles POST /v1/sessions/{id}/answers. It blocks until the answer is scored.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req answerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: errInvalidBody.Error()})
		return
	}
	resp, snap, err := h.service.Submit(r.Context(), mux.Vars(r)["id"], domain.AnswerSubmission{
		QuestionID: req.QuestionID,
		Text:       req.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResult{Response: resp, Session: snap})
}

// Restart handles POST /v1/sessions/{id}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Restart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// StartTimer handles POST /v1/sessions/{id}/timer
func (h *SessionHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.StartTimer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ResetTimer handles DELETE /v1/sessions/{id}/timer
func (h *SessionHandler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ResetTimer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SetPresence handles PUT /v1/sessions/{id}/presence
func (h *SessionHandler) SetPresence(w http.ResponseWriter, r *http.Request) {
	var req presencePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: errInvalidBody.Error()})
		return
	}
	snap, err := h.service.SetPresence(r.Context(), mux.Vars(r)["id"], req.Visible)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Results handles GET /v1/sessions/{id}/results
func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// End handles DELETE /v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.service.End(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
