package ranking

import (
	"cmp"
	"slices"

	"github.com/go-playground/validator/v10"
)

const (
	TextWeight       = 0.4
	DegreeWeight     = 0.3
	ExperienceWeight = 0.3
)

// JobDescription is the job every candidate is ranked against.
type JobDescription struct {
	Text            string `mapstructure:"text" json:"text" yaml:"text"`
	Degree          string `mapstructure:"degree" json:"degree" yaml:"degree"`
	ExperienceYears int    `mapstructure:"experience_years" json:"experience_years" yaml:"experience_years" validate:"gte=0"`
}

// Candidate is a single résumé. Text, Degree and WorkExperience keep whatever
// value the source supplied, nil included; scorers degrade non-text values.
type Candidate struct {
	Name           string `mapstructure:"name" json:"name"`
	Text           any    `mapstructure:"text" json:"text"`
	Degree         any    `mapstructure:"degree" json:"degree"`
	WorkExperience any    `mapstructure:"work_experience" json:"work_experience"`
}

// ScoredCandidate is the ranking result for one candidate.
type ScoredCandidate struct {
	// Index is the candidate position in the input collection.
	Index           int     `json:"index"`
	Name            string  `json:"name"`
	TextSimilarity  float64 `json:"text_similarity"`
	DegreeMatch     float64 `json:"degree_match"`
	ExperienceMatch float64 `json:"experience_match"`
	FinalScore      float64 `json:"final_score"`
}

// FinalScore combines the three partial scores with the fixed weights.
func FinalScore(textSimilarity, degreeMatch, experienceMatch float64) float64 {
	return TextWeight*textSimilarity + DegreeWeight*degreeMatch + ExperienceWeight*experienceMatch
}

// Validate checks the job record.
func (j JobDescription) Validate() error {
	if err := validator.New().Struct(j); err != nil {
		return &InvalidInputError{Record: "job", Field: "experience_years", Err: err}
	}
	return nil
}

// Rank scores every candidate against job and returns them ordered by final
// score, highest first. Candidates with equal scores keep their input order.
func Rank(candidates []Candidate, job JobDescription) ([]ScoredCandidate, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	texts := make([]string, len(candidates))
	degrees := make([]any, len(candidates))
	experiences := make([]any, len(candidates))
	for i, c := range candidates {
		texts[i] = NormalizeText(c.Text)
		degrees[i] = c.Degree
		experiences[i] = c.WorkExperience
	}

	similarity := ScoreSimilarity(job.Text, texts)
	degree := MatchDegree(job.Degree, degrees)
	experience := MatchExperience(job.ExperienceYears, experiences)

	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredCandidate{
			Index:           i,
			Name:            c.Name,
			TextSimilarity:  similarity[i],
			DegreeMatch:     degree[i],
			ExperienceMatch: experience[i],
			FinalScore:      FinalScore(similarity[i], degree[i], experience[i]),
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredCandidate) int {
		return cmp.Compare(b.FinalScore, a.FinalScore)
	})

	return scored, nil
}
