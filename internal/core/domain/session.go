// Package domain defines the core domain models for FitPlan.
//
// Domain models are pure value objects without any IO dependencies.
package domain

import (
	"bytes"
	"encoding/json"
)

// Storage keys persisted on the device.
const (
	// KeyUser holds the serialized SessionRecord of the signed-in user.
	KeyUser = "user"

	// KeyLastPage holds the RouteMarker of the last visited route.
	KeyLastPage = "lastPage"
)

// SessionRecord is the locally cached representation of the signed-in user.
//
// The record is opaque to FitPlan: it is produced by the sign-in flow and
// only read back here, so it is kept as a decoded JSON object.
type SessionRecord map[string]any

// IsNullSessionRecord reports whether raw is a JSON null. A stored null
// means nobody is signed in, the same as an absent key.
func IsNullSessionRecord(raw string) bool {
	return string(bytes.TrimSpace([]byte(raw))) == "null"
}

// DecodeSessionRecord parses a stored user value.
// Numbers are kept as json.Number so a decode/encode cycle is lossless.
func DecodeSessionRecord(raw string) (SessionRecord, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var rec SessionRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, ErrSessionMalformed.WithCause(err)
	}
	if rec == nil {
		return nil, ErrSessionMalformed.WithDetails("stored value is null")
	}
	if dec.More() {
		return nil, ErrSessionMalformed.WithDetails("trailing data after record")
	}
	return rec, nil
}

// Encode serializes the record for storage.
func (r SessionRecord) Encode() (string, error) {
	if r == nil {
		return "", ErrSessionInvalid
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", ErrSessionInvalid.WithCause(err)
	}
	return string(data), nil
}

// String returns the string field named key, or "" when absent or not a string.
func (r SessionRecord) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// SessionStatus enumerates the states exposed by a session read.
type SessionStatus string

const (
	// SessionPending means the read has not completed yet.
	SessionPending SessionStatus = "pending"
	// SessionNone means no user record is stored.
	SessionNone SessionStatus = "none"
	// SessionActive means a user record was loaded.
	SessionActive SessionStatus = "active"
	// SessionInvalid means a stored record exists but could not be decoded.
	SessionInvalid SessionStatus = "invalid"
	// SessionUnavailable means the store could not be read.
	SessionUnavailable SessionStatus = "unavailable"
)

// SessionState is the in-memory view of the current user.
type SessionState struct {
	Status SessionStatus `json:"status"`
	Record SessionRecord `json:"record,omitempty"`
	Err    error         `json:"-"`
}

// HasSession reports whether a user record is loaded.
func (s SessionState) HasSession() bool {
	return s.Status == SessionActive
}
