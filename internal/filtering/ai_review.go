package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-ranker/internal/ai"
	"github.com/spigell/cv-ranker/internal/report"
)

type aiReviewFilter struct {
	enabled bool
	reason  string
	config  *AIReviewConfig
	deps    *AIReviewDeps
}

type AIReviewDeps struct {
	Logger   *zap.Logger
	Reviewer ai.Reviewer
}

type AIReviewConfig struct {
	Enabled  bool
	Provider string
	Model    string
	// MaxCandidates limits how many of the best ranked candidates are reviewed. Zero reviews all.
	MaxCandidates int
}

// NewAIReview creates a step that attaches an AI review to every remaining candidate.
// It never drops candidates; a failed review is recorded on the entry.
func NewAIReview(cfg *AIReviewConfig, deps *AIReviewDeps) Filter {
	if cfg == nil {
		cfg = &AIReviewConfig{}
	}
	f := &aiReviewFilter{enabled: cfg.Enabled, config: cfg, deps: deps}
	if !f.enabled {
		f.reason = "disabled in config"
	}
	return f
}

func (f *aiReviewFilter) Name() string { return "ai_review" }

func (f *aiReviewFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiReviewFilter) IsEnabled() bool { return f.enabled }

func (f *aiReviewFilter) Validate() error {
	if f.deps == nil || f.deps.Reviewer == nil {
		return fmt.Errorf("reviewer is not initialized: filter is not usable")
	}
	if f.config.MaxCandidates < 0 {
		return fmt.Errorf("max candidates must not be negative")
	}
	return nil
}

func (f *aiReviewFilter) Apply(ctx context.Context, r *report.Report) (*report.Report, Step, error) {
	logger := f.deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reviewed, failed := 0, 0
	for i, entry := range r.Items {
		if f.config.MaxCandidates > 0 && i >= f.config.MaxCandidates {
			break
		}
		if err := ctx.Err(); err != nil {
			return r, Step{}, err
		}

		review, err := f.deps.Reviewer.Review(ctx, r.Job, entry.Profile())
		if err != nil {
			logger.Warn("AI review failed",
				zap.String("candidate", entry.Name),
				zap.Error(err),
			)
			entry.Review = &ai.Review{Error: err.Error()}
			failed++
			continue
		}

		logger.Debug("candidate reviewed by AI",
			zap.String("candidate", entry.Name),
			zap.Float64("ai_score", review.Score),
		)
		entry.Review = review
		reviewed++
	}

	logger.Info("AI review completed",
		zap.Int("reviewed_candidates", reviewed),
		zap.Int("failed_reviews", failed),
	)

	return r, Step{Initial: r.Len(), Dropped: 0, Left: r.Len()}, nil
}

func (f *aiReviewFilter) Status() Status {
	details := map[string]string{
		"max_candidates": strconv.Itoa(f.config.MaxCandidates),
	}
	if p := strings.TrimSpace(f.config.Provider); p != "" {
		details["provider"] = p
	}
	if m := strings.TrimSpace(f.config.Model); m != "" {
		details["model"] = m
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
