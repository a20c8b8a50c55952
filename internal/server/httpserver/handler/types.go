package handler

import (
	"encoding/json"
	"time"

	"github.com/yndnr/fitplan-go/internal/navigation"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// PutSessionRequest is the request body for PUT /v1/session.
type PutSessionRequest struct {
	Record json.RawMessage `json:"record"`
}

// NavigationRequest is the request body for POST /v1/navigation.
// Either Route or State must be set; State wins when both are.
type NavigationRequest struct {
	Route string            `json:"route,omitempty"`
	State *navigation.State `json:"state,omitempty"`
}

// NavigationResponse is the response body for POST /v1/navigation.
type NavigationResponse struct {
	Route     string `json:"route,omitempty"`
	Delivered int    `json:"delivered"`
}

// GeneratePlanRequest is the request body for POST /v1/plans.
type GeneratePlanRequest struct {
	Goal string `json:"goal"`
}

// PlanResponse is the response body for the plan endpoints.
//
// Output is the current plan text. A failed request leaves it unchanged.
type PlanResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Output    string `json:"output"`
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
}
