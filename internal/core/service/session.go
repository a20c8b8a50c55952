package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/storage"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

// SessionService manages the user record stored under domain.KeyUser.
type SessionService struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metric.Registry
}

// NewSessionService creates a SessionService. metrics may be nil.
func NewSessionService(store storage.Store, logger *slog.Logger, metrics *metric.Registry) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		store:   store,
		logger:  logger.With("component", "session"),
		metrics: metrics,
	}
}

// ============================================================================
// Read
// ============================================================================

// Load reads the stored user record once.
//
// An absent record or a stored JSON null yields SessionNone, never an error. A record that does
// not decode yields SessionInvalid and a store failure SessionUnavailable;
// both carry the cause in State.Err.
func (s *SessionService) Load(ctx context.Context) domain.SessionState {
	state := s.load(ctx)
	s.metrics.ObserveSessionLoad(string(state.Status))
	return state
}

func (s *SessionService) load(ctx context.Context) domain.SessionState {
	raw, err := s.store.Get(ctx, domain.KeyUser)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.SessionState{Status: domain.SessionNone}
		}
		s.logger.Warn("session read failed", "error", err)
		return domain.SessionState{
			Status: domain.SessionUnavailable,
			Err:    domain.ErrStorage.WithCause(err),
		}
	}

	if domain.IsNullSessionRecord(raw) {
		return domain.SessionState{Status: domain.SessionNone}
	}
	rec, err := domain.DecodeSessionRecord(raw)
	if err != nil {
		s.logger.Warn("stored session is malformed", "error", err, "bytes", len(raw))
		return domain.SessionState{Status: domain.SessionInvalid, Err: err}
	}
	return domain.SessionState{Status: domain.SessionActive, Record: rec}
}

// Open starts the one-shot read and returns its handle.
func (s *SessionService) Open(ctx context.Context) *SessionReader {
	return &SessionReader{f: goFuture(ctx, s.Load)}
}

// ============================================================================
// Write
// ============================================================================

// Save stores rec as the current user.
func (s *SessionService) Save(ctx context.Context, rec domain.SessionRecord) error {
	raw, err := rec.Encode()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, domain.KeyUser, raw); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	s.logger.Info("session saved", "user_id", rec.String("id"))
	return nil
}

// SaveRaw validates raw as a session record and stores it.
func (s *SessionService) SaveRaw(ctx context.Context, raw string) error {
	rec, err := domain.DecodeSessionRecord(raw)
	if err != nil {
		return err
	}
	return s.Save(ctx, rec)
}

// Clear removes the stored user record. Clearing an absent record is not an error.
func (s *SessionService) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, domain.KeyUser); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	s.logger.Info("session cleared")
	return nil
}

// ============================================================================
// SessionReader
// ============================================================================

// SessionReader is the handle of one activation's session read.
//
// The read runs exactly once; State and Wait never re-fetch.
type SessionReader struct {
	f *future[domain.SessionState]
}

// Done is closed when the read has completed.
func (r *SessionReader) Done() <-chan struct{} {
	return r.f.Done()
}

// Wait blocks until the read completes or ctx ends.
func (r *SessionReader) Wait(ctx context.Context) (domain.SessionState, error) {
	return r.f.Wait(ctx)
}

// State returns the current state: SessionPending until the read completes.
func (r *SessionReader) State() domain.SessionState {
	if st, ok := r.f.peek(); ok {
		return st
	}
	return domain.SessionState{Status: domain.SessionPending}
}

// Release cancels the read if it is still running.
func (r *SessionReader) Release() {
	r.f.release()
}
