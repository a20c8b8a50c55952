package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/yndnr/fitplan-go/internal/completion"
	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

// DefaultPromptTemplate wraps the user's goal in a plan request.
const DefaultPromptTemplate = "Create a detailed weekly workout plan for the following goal: {{.Goal}}"

// Completer is the completion client used by PlanService.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (*completion.Response, error)
}

// PlanConfig configures PlanService.
type PlanConfig struct {
	// PromptTemplate is a text/template executed with {{.Goal}}.
	PromptTemplate string `koanf:"prompt_template" yaml:"prompt_template" json:"prompt_template"`

	// MaxTokens caps the completion length. Zero uses the client default.
	MaxTokens int `koanf:"max_tokens" yaml:"max_tokens" json:"max_tokens"`

	// Timeout bounds one request. Zero relies on the caller's context.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`

	// SurfaceErrors exposes failures to end users. When false, failures
	// are only logged and the output stays as it was.
	SurfaceErrors bool `koanf:"surface_errors" yaml:"surface_errors" json:"surface_errors"`
}

// PlanService generates workout plans from free-text goals.
//
// It holds the current plan output. A failed request never changes it.
type PlanService struct {
	client  Completer
	cfg     PlanConfig
	prompt  *template.Template
	logger  *slog.Logger
	metrics *metric.Registry

	mu     sync.RWMutex
	output string
	last   *domain.PlanResult
}

// NewPlanService creates a PlanService. metrics may be nil.
func NewPlanService(client Completer, cfg PlanConfig, logger *slog.Logger, metrics *metric.Registry) (*PlanService, error) {
	if client == nil {
		return nil, fmt.Errorf("plan service: completion client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PromptTemplate == "" {
		cfg.PromptTemplate = DefaultPromptTemplate
	}
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(cfg.PromptTemplate)
	if err != nil {
		return nil, domain.ErrInvalidConfig.WithDetails("plan.prompt_template").WithCause(err)
	}
	if err := tmpl.Execute(io.Discard, struct{ Goal string }{}); err != nil {
		return nil, domain.ErrInvalidConfig.WithDetails("plan.prompt_template").WithCause(err)
	}

	return &PlanService{
		client:  client,
		cfg:     cfg,
		prompt:  tmpl,
		logger:  logger.With("component", "plan"),
		metrics: metrics,
	}, nil
}

// Generate requests a plan for goal.
//
// On success the first candidate becomes the current output. On any
// failure the output is left unchanged and the failure is returned as a
// PlanFailed result; Generate itself never panics.
func (s *PlanService) Generate(ctx context.Context, goal string) (res *domain.PlanResult) {
	start := time.Now()
	res = &domain.PlanResult{Goal: goal}

	if id, err := domain.GeneratePlanID(); err == nil {
		res.RequestID = id
	}

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = domain.PlanFailed
			res.Text = ""
			res.Err = domain.ErrInternal.WithDetails(fmt.Sprint(r))
		}
		res.Elapsed = time.Since(start)
		s.finish(res)
	}()

	text, err := s.request(ctx, goal)
	if err != nil {
		res.Outcome = domain.PlanFailed
		res.Err = err
		return res
	}
	res.Outcome = domain.PlanSucceeded
	res.Text = text
	return res
}

func (s *PlanService) request(ctx context.Context, goal string) (string, error) {
	var prompt strings.Builder
	if err := s.prompt.Execute(&prompt, struct{ Goal string }{goal}); err != nil {
		return "", domain.ErrPlanRequestFailed.WithDetails("render prompt").WithCause(err)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.client.Complete(ctx, completion.Request{
		Prompt:    prompt.String(),
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return "", mapCompletionError(err)
	}

	text, err := resp.FirstText()
	if err != nil {
		return "", domain.ErrPlanEmptyResponse.WithCause(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrPlanEmptyResponse.WithDetails("first candidate is blank")
	}
	return text, nil
}

func (s *PlanService) finish(res *domain.PlanResult) {
	s.metrics.ObservePlan(string(res.Outcome), res.Elapsed)

	s.mu.Lock()
	s.last = res
	if res.OK() {
		s.output = res.Text
	}
	s.mu.Unlock()

	if res.OK() {
		s.logger.Info("plan generated",
			"request_id", res.RequestID,
			"goal_len", len(res.Goal),
			"text_len", len(res.Text),
			"elapsed", res.Elapsed)
		return
	}
	s.logger.Error("plan request failed",
		"request_id", res.RequestID,
		"code", res.ErrorCode(),
		"error", res.Err,
		"elapsed", res.Elapsed)
}

// Output returns the current plan text.
func (s *PlanService) Output() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output
}

// Last returns the most recent result, or nil before the first request.
func (s *PlanService) Last() *domain.PlanResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// SurfaceErrors reports whether failures should be shown to end users.
func (s *PlanService) SurfaceErrors() bool {
	return s.cfg.SurfaceErrors
}

func mapCompletionError(err error) error {
	switch {
	case errors.Is(err, completion.ErrRateLimited):
		return domain.ErrPlanRateLimited.WithCause(err)
	case errors.Is(err, completion.ErrNoChoices):
		return domain.ErrPlanEmptyResponse.WithCause(err)
	default:
		return domain.ErrPlanRequestFailed.WithCause(err)
	}
}
