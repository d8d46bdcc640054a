package filtering

import (
	"context"
	"strconv"

	"github.com/spigell/cv-ranker/internal/report"
)

type topNFilter struct {
	n       int
	enabled bool
	reason  string
}

// NewTopN creates a filter that keeps only the n best ranked candidates.
// A non-positive n keeps everyone.
func NewTopN(n int) Filter {
	f := &topNFilter{n: n, enabled: n > 0}
	if !f.enabled {
		f.reason = "limit is not set"
	}
	return f
}

func (f *topNFilter) Name() string { return "top_n" }

func (f *topNFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *topNFilter) IsEnabled() bool { return f.enabled }

func (f *topNFilter) Validate() error { return nil }

func (f *topNFilter) Apply(_ context.Context, r *report.Report) (*report.Report, Step, error) {
	initial := r.Len()
	dropped := r.Truncate(f.n)
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *topNFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"n": strconv.Itoa(f.n)},
	}
}
