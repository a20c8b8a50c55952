package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/navigation"
)

// handleLastRoute handles GET /v1/route.
func (h *Handler) handleLastRoute(w http.ResponseWriter, r *http.Request) {
	last := h.routes.Last(r.Context())
	if last.Err != nil {
		h.handleServiceError(w, r, last.Err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, last)
}

// handleNavigation handles POST /v1/navigation.
//
// The event is published to the broker and the route tracker records it.
// Structurally invalid states are rejected before publishing.
func (h *Handler) handleNavigation(w http.ResponseWriter, r *http.Request) {
	var req NavigationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	state := req.State
	if state == nil {
		if req.Route == "" {
			h.handleServiceError(w, r, domain.ErrBadRequest.WithDetails("route or state is required"))
			return
		}
		state = navigation.Single(req.Route)
	}
	if err := state.Validate(); err != nil {
		h.handleServiceError(w, r, domain.ErrBadRequest.WithCause(err))
		return
	}

	ev := navigation.Event{State: state, Source: "http", At: time.Now()}
	delivered := h.broker.Publish(r.Context(), ev)

	name, _ := ev.RouteName()
	h.writeJSON(w, r, http.StatusAccepted, NavigationResponse{Route: name, Delivered: delivered})
}
