package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// PlanIDPrefix is the prefix for plan request IDs.
const PlanIDPrefix = "fppl-"

// PlanOutcome distinguishes the variants of a PlanResult.
type PlanOutcome string

const (
	PlanSucceeded PlanOutcome = "succeeded"
	PlanFailed    PlanOutcome = "failed"
)

// PlanResult is the outcome of one plan generation request.
//
// Exactly one of Text (on success) or Err (on failure) is meaningful.
type PlanResult struct {
	RequestID string        `json:"request_id"`
	Outcome   PlanOutcome   `json:"outcome"`
	Goal      string        `json:"goal"`
	Text      string        `json:"text,omitempty"`
	Err       error         `json:"-"`
	Elapsed   time.Duration `json:"elapsed"`
}

// OK reports whether the request produced a plan.
func (r *PlanResult) OK() bool {
	return r.Outcome == PlanSucceeded
}

// ErrorCode returns the domain error code of a failed result.
func (r *PlanResult) ErrorCode() string {
	return GetErrorCode(r.Err)
}

// GeneratePlanID generates a new plan request ID using ULID.
// Format: fppl-{ulid_lowercase}.
func GeneratePlanID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return PlanIDPrefix + strings.ToLower(id.String()), nil
}
