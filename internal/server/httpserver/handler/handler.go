package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/core/service"
	"github.com/yndnr/fitplan-go/internal/navigation"
	"github.com/yndnr/fitplan-go/internal/telemetry/logger"
)

// maxBodyBytes bounds request bodies read by the handlers.
const maxBodyBytes = 1 << 20

// Deps are the components served by Handler.
type Deps struct {
	Sessions *service.SessionService
	Routes   *service.RouteService
	Plans    *service.PlanService
	Broker   *navigation.Broker
	Tabs     []domain.Tab
	Logger   *slog.Logger
}

// Handler routes shell bridge requests to the services.
type Handler struct {
	sessions *service.SessionService
	routes   *service.RouteService
	plans    *service.PlanService
	broker   *navigation.Broker
	tabs     []domain.Tab
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Handler. Missing tabs default to domain.DefaultTabs.
func New(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if len(deps.Tabs) == 0 {
		deps.Tabs = domain.DefaultTabs()
	}

	h := &Handler{
		sessions: deps.Sessions,
		routes:   deps.Routes,
		plans:    deps.Plans,
		broker:   deps.Broker,
		tabs:     deps.Tabs,
		logger:   deps.Logger,
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /v1/tabs", h.handleTabs)

	h.mux.HandleFunc("GET /v1/session", h.handleGetSession)
	h.mux.HandleFunc("PUT /v1/session", h.handlePutSession)
	h.mux.HandleFunc("DELETE /v1/session", h.handleDeleteSession)

	h.mux.HandleFunc("GET /v1/route", h.handleLastRoute)
	h.mux.HandleFunc("POST /v1/navigation", h.handleNavigation)

	h.mux.HandleFunc("POST /v1/plans", h.handleGeneratePlan)
	h.mux.HandleFunc("GET /v1/plans/current", h.handleCurrentPlan)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message))
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if code := domain.GetErrorCode(err); code != "" {
		status := ErrorCodeToHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "request failed", "code", code, "error", err)
		}
		h.writeError(w, r, status, code, err.Error())
		return
	}

	h.logger.ErrorContext(r.Context(), "internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, "internal server error")
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return domain.ErrBadRequest.WithDetails("invalid JSON body").WithCause(err)
	}
	return nil
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4220"):
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "FP-PLAN-502"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
