// Package logger configures structured logging for FitPlan.
//
// It builds a log/slog logger with:
//
//   - JSON (default) or text output
//   - a process-wide level that can change at runtime (SetLevel)
//   - redaction of API keys, bearer credentials and other secrets
//   - request IDs taken from the context (WithRequestID)
//
// Components receive the resulting *slog.Logger explicitly.
package logger
