package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-ranker/internal/ranking"
)

func observe() (*zap.Logger, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.DebugLevel)
	return zap.New(core), observed
}

func TestAIFields(t *testing.T) {
	fields := AIFields("  Gemini  ", "model-v1")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != FieldProvider || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}
	if fields[1].Key != FieldModel || fields[1].String != "model-v1" {
		t.Fatalf("unexpected model field: %+v", fields[1])
	}

	if empty := AIFields("", "   "); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithAI(t *testing.T) {
	logger, observed := observe()

	WithAI(logger, "gemini", "model-x").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" || ctx[FieldModel] != "model-x" {
		t.Fatalf("unexpected fields: %v", ctx)
	}

	// nil falls back to a no-op logger.
	WithAI(nil, "gemini", "model-x").Info("another log")
	With(nil).Info("and another")
}

func TestJobAndReportFields(t *testing.T) {
	logger, observed := observe()

	fields := JobFields("backend", ranking.JobDescription{Degree: "CS", ExperienceYears: 3})
	fields = append(fields, ReportFields("abc", 4)...)
	logger.Info("ranked", fields...)

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldJob] != "backend" || ctx[FieldJobDegree] != "CS" {
		t.Fatalf("unexpected job fields: %v", ctx)
	}
	if ctx[FieldJobYears] != int64(3) || ctx[FieldCandidates] != int64(4) || ctx[FieldReportID] != "abc" {
		t.Fatalf("unexpected numeric fields: %v", ctx)
	}

	if got := len(JobFields("", ranking.JobDescription{})); got != 1 {
		t.Fatalf("expected only the years field for an unnamed job, got %d", got)
	}
}

func TestScoreFields(t *testing.T) {
	logger, observed := observe()

	logger.Info("ranked", ScoreFields(ranking.ScoredCandidate{
		Name:            "Ada",
		TextSimilarity:  0.5,
		DegreeMatch:     1,
		ExperienceMatch: 0.5,
		FinalScore:      0.65,
	})...)

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldCandidate] != "Ada" {
		t.Fatalf("unexpected candidate field: %v", ctx[FieldCandidate])
	}
	if ctx[FieldFinalScore] != 0.65 {
		t.Fatalf("unexpected final score field: %v", ctx[FieldFinalScore])
	}
	if ctx[FieldDegreeMatch] != 1.0 {
		t.Fatalf("unexpected degree field: %v", ctx[FieldDegreeMatch])
	}
}
