package ranking

import (
	"fmt"
	"strings"
)

type degreeCategory struct {
	name    string
	aliases []string
}

// degreeCategories is evaluated in order; the first category with a matching alias wins.
var degreeCategories = []degreeCategory{
	{name: "computer science", aliases: []string{"cs", "computer science", "computer engineering"}},
	{name: "data science", aliases: []string{"data science", "statistics", "applied mathematics"}},
	{name: "engineering", aliases: []string{"engineering", "software engineering", "computer engineering"}},
	{name: "information technology", aliases: []string{"it", "information technology", "computer applications"}},
}

// NormalizeDegree maps a free-text degree to its canonical category. Degrees
// that match no alias are returned cleaned but otherwise unchanged.
func NormalizeDegree(v any) string {
	var raw string
	switch val := v.(type) {
	case nil:
	case string:
		raw = val
	default:
		raw = fmt.Sprint(val)
	}

	degree := keepLetters(strings.ToLower(raw))

	for _, category := range degreeCategories {
		for _, alias := range category.aliases {
			if strings.Contains(degree, alias) {
				return category.name
			}
		}
	}

	return degree
}

// MatchDegree scores every candidate degree against the job degree:
// 1.0 on an exact match, 0.5 when the job degree is contained in the
// candidate degree and 0.0 otherwise.
//
// An empty job degree is contained in every string, so every candidate
// without an exact match scores 0.5.
func MatchDegree(jobDegree any, candidateDegrees []any) []float64 {
	job := NormalizeDegree(jobDegree)

	scores := make([]float64, len(candidateDegrees))
	for i, d := range candidateDegrees {
		candidate := NormalizeDegree(d)
		switch {
		case candidate == job:
			scores[i] = 1.0
		case strings.Contains(candidate, job):
			scores[i] = 0.5
		default:
			scores[i] = 0.0
		}
	}

	return scores
}
