package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/cv-ranker/internal/report"
)

type minScoreFilter struct {
	threshold float64
	enabled   bool
	reason    string
	logger    *zap.Logger
}

// NewMinScore creates a filter that drops candidates whose final score is below threshold.
// A non-positive threshold leaves the filter disabled.
func NewMinScore(threshold float64, logger *zap.Logger) Filter {
	f := &minScoreFilter{threshold: threshold, enabled: threshold > 0, logger: logger}
	if !f.enabled {
		f.reason = "threshold is not set"
	}
	return f
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minScoreFilter) Validate() error {
	if f.threshold > 1 {
		return fmt.Errorf("minimum score %.2f is above the maximum final score 1", f.threshold)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, r *report.Report) (*report.Report, Step, error) {
	initial := r.Len()
	dropped := r.DropBelow(f.threshold)
	if f.logger != nil && len(dropped) > 0 {
		f.logger.Debug("dropping candidates below minimum score",
			zap.Float64("threshold", f.threshold),
			zap.Strings("dropped_candidates", dropped),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"threshold": strconv.FormatFloat(f.threshold, 'f', 2, 64)},
	}
}
