package storage

import (
	"context"
	"errors"

	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

// instrumented counts operations of the wrapped store per backend.
type instrumented struct {
	inner   Store
	backend string
	metrics *metric.Registry
}

// Instrument wraps inner so every operation is counted in metrics.
// A nil registry returns inner unchanged.
func Instrument(inner Store, backend string, metrics *metric.Registry) Store {
	if metrics == nil {
		return inner
	}
	return &instrumented{inner: inner, backend: backend, metrics: metrics}
}

func (s *instrumented) Get(ctx context.Context, key string) (string, error) {
	v, err := s.inner.Get(ctx, key)
	s.metrics.ObserveStorage(s.backend, "get", resultLabel(err))
	return v, err
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	err := s.inner.Set(ctx, key, value)
	s.metrics.ObserveStorage(s.backend, "set", resultLabel(err))
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	err := s.inner.Delete(ctx, key)
	s.metrics.ObserveStorage(s.backend, "delete", resultLabel(err))
	return err
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metric.ResultOK
	case errors.Is(err, ErrKeyNotFound):
		return metric.ResultNotFound
	default:
		return metric.ResultError
	}
}
