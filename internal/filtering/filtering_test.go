package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-ranker/internal/ai"
	"github.com/spigell/cv-ranker/internal/ranking"
	"github.com/spigell/cv-ranker/internal/report"
)

type stubReviewer struct {
	failFor map[string]bool
	calls   []string
}

func (s *stubReviewer) Review(_ context.Context, _ ranking.JobDescription, p ai.Profile) (*ai.Review, error) {
	s.calls = append(s.calls, p.Name)
	if s.failFor[p.Name] {
		return nil, errors.New("quota exceeded")
	}
	return &ai.Review{Score: p.Scores.FinalScore, Summary: "ok " + p.Name}, nil
}

func newReport() *report.Report {
	scored := []ranking.ScoredCandidate{
		{Index: 0, Name: "a", FinalScore: 0.9},
		{Index: 1, Name: "b", FinalScore: 0.7},
		{Index: 2, Name: "c", FinalScore: 0.4},
		{Index: 3, Name: "d", FinalScore: 0.1},
	}
	candidates := make([]ranking.Candidate, len(scored))
	for i, sc := range scored {
		candidates[i] = ranking.Candidate{Name: sc.Name, Text: "text " + sc.Name}
	}
	return report.New(ranking.JobDescription{Text: "job"}, candidates, scored)
}

func TestRunFiltersPipeline(t *testing.T) {
	excludePath := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &report.ExcludedCandidates{Items: []*report.ExcludedCandidate{{Name: "b"}}}
	if err := excluded.ToFile(excludePath); err != nil {
		t.Fatalf("writing exclude file: %v", err)
	}

	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	reviewer := &stubReviewer{failFor: map[string]bool{"c": true}}
	steps := []Filter{
		NewMinScore(0.3, logger),
		NewExcludeFile(excludePath, logger),
		NewTopN(2),
		NewAIReview(&AIReviewConfig{Enabled: true}, &AIReviewDeps{Logger: logger, Reviewer: reviewer}),
	}

	got, err := New(steps, logger).RunFilters(context.Background(), newReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if names := strings.Join(got.Names(), ","); names != "a,c" {
		t.Fatalf("unexpected names: %s", names)
	}

	if got.Items[0].Review == nil || got.Items[0].Review.Summary != "ok a" {
		t.Fatalf("expected review for a, got %+v", got.Items[0].Review)
	}
	if got.Items[1].Review == nil || got.Items[1].Review.Error != "quota exceeded" {
		t.Fatalf("expected failed review recorded for c, got %+v", got.Items[1].Review)
	}

	stepLogs := observed.FilterMessage("filter step").All()
	if len(stepLogs) != 4 {
		t.Fatalf("expected 4 step logs, got %d", len(stepLogs))
	}
	first := stepLogs[0].ContextMap()
	if first["name"] != "min_score" || first["dropped"] != int64(1) || first["left"] != int64(3) {
		t.Fatalf("unexpected min_score step: %v", first)
	}
}

func TestRunFiltersSkipsDisabled(t *testing.T) {
	steps := []Filter{
		NewMinScore(0, nil),
		NewTopN(0),
		NewAIReview(&AIReviewConfig{Enabled: false}, nil),
	}

	got, err := New(steps, nil).RunFilters(context.Background(), newReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 4 {
		t.Fatalf("expected all candidates kept, got %d", got.Len())
	}
}

func TestRunFiltersValidationError(t *testing.T) {
	steps := []Filter{
		NewAIReview(&AIReviewConfig{Enabled: true}, &AIReviewDeps{}),
	}

	_, err := New(steps, nil).RunFilters(context.Background(), newReport())
	if err == nil || !strings.HasPrefix(err.Error(), "ai_review:") {
		t.Fatalf("expected ai_review validation error, got %v", err)
	}

	_, err = New([]Filter{NewMinScore(1.5, nil)}, nil).RunFilters(context.Background(), newReport())
	if err == nil {
		t.Fatalf("expected min_score validation error")
	}
}

func TestAIReviewMaxCandidates(t *testing.T) {
	reviewer := &stubReviewer{}
	f := NewAIReview(&AIReviewConfig{Enabled: true, MaxCandidates: 2}, &AIReviewDeps{Reviewer: reviewer})

	r, step, err := f.Apply(context.Background(), newReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 0 || step.Left != 4 {
		t.Fatalf("review must not drop candidates: %+v", step)
	}
	if strings.Join(reviewer.calls, ",") != "a,b" {
		t.Fatalf("unexpected reviewed candidates: %v", reviewer.calls)
	}
	if r.Items[2].Review != nil {
		t.Fatalf("did not expect review beyond the limit")
	}
}

func TestDisableAndDescribe(t *testing.T) {
	top := NewTopN(3)
	f := New([]Filter{top, NewExcludeFile("", nil)}, nil)

	top.Disable("manual")

	statuses := f.Describe()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Name != "top_n" || statuses[0].Enabled || statuses[0].Reason != "manual" {
		t.Fatalf("unexpected top_n status: %+v", statuses[0])
	}
	if statuses[0].Details["n"] != "3" {
		t.Fatalf("unexpected details: %v", statuses[0].Details)
	}
	if statuses[1].Name != "exclude_file" || !statuses[1].Enabled {
		t.Fatalf("unexpected exclude_file status: %+v", statuses[1])
	}
}
