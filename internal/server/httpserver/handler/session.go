package handler

import (
	"net/http"

	"github.com/yndnr/fitplan-go/internal/core/domain"
)

// handleGetSession handles GET /v1/session.
//
// The state is reported as-is: "none", "invalid" and "unavailable" are
// answered with 200 so the shell can pick its screen.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.sessions.Load(r.Context()))
}

// handlePutSession handles PUT /v1/session.
func (h *Handler) handlePutSession(w http.ResponseWriter, r *http.Request) {
	var req PutSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if len(req.Record) == 0 {
		h.handleServiceError(w, r, domain.ErrSessionInvalid.WithDetails("record is required"))
		return
	}

	rec, err := domain.DecodeSessionRecord(string(req.Record))
	if err != nil {
		// The record came from the caller, so it is a bad request rather
		// than malformed stored data.
		h.handleServiceError(w, r, domain.ErrSessionInvalid.WithCause(err))
		return
	}
	if err := h.sessions.Save(r.Context(), rec); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, domain.SessionState{Status: domain.SessionActive, Record: rec})
}

// handleDeleteSession handles DELETE /v1/session.
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, domain.SessionState{Status: domain.SessionNone})
}
