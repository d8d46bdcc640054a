package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-ranker/internal/ranking"
)

// Structured field keys shared by the commands and the reviewer.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"

	FieldJob             = "job"
	FieldJobDegree       = "job_degree"
	FieldJobYears        = "job_experience_years"
	FieldReportID        = "report_id"
	FieldCandidates      = "candidates"
	FieldCandidate       = "candidate"
	FieldFinalScore      = "final_score"
	FieldTextSimilarity  = "text_similarity"
	FieldDegreeMatch     = "degree_match"
	FieldExperienceMatch = "experience_match"
)

// nonEmpty turns key/value pairs into string fields. Pairs with a blank key or value are skipped.
func nonEmpty(pairs ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, value := strings.TrimSpace(pairs[i]), strings.TrimSpace(pairs[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// With attaches fields to logger. A nil logger becomes a no-op logger.
func With(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// AIFields describes the AI provider and model. Blank values are left out.
func AIFields(provider, model string) []zap.Field {
	return nonEmpty(FieldProvider, provider, FieldModel, model)
}

// WithAI attaches the AI provider and model to logger.
func WithAI(logger *zap.Logger, provider, model string) *zap.Logger {
	return With(logger, AIFields(provider, model)...)
}

// JobFields describes the job a ranking run is for. name may be empty for single runs.
func JobFields(name string, job ranking.JobDescription) []zap.Field {
	fields := nonEmpty(FieldJob, name, FieldJobDegree, job.Degree)
	return append(fields, zap.Int(FieldJobYears, job.ExperienceYears))
}

// ReportFields describes a ranking report.
func ReportFields(id string, count int) []zap.Field {
	return append(nonEmpty(FieldReportID, id), zap.Int(FieldCandidates, count))
}

// ScoreFields describes a ranked candidate.
func ScoreFields(sc ranking.ScoredCandidate) []zap.Field {
	return []zap.Field{
		zap.String(FieldCandidate, sc.Name),
		zap.Float64(FieldFinalScore, sc.FinalScore),
		zap.Float64(FieldTextSimilarity, sc.TextSimilarity),
		zap.Float64(FieldDegreeMatch, sc.DegreeMatch),
		zap.Float64(FieldExperienceMatch, sc.ExperienceMatch),
	}
}
