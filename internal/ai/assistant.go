package ai

import (
	"context"

	"github.com/spigell/cv-ranker/internal/ranking"
)

// Review is a short AI-written assessment of one ranked candidate.
type Review struct {
	Score     float64  `json:"score"`
	Summary   string   `json:"summary,omitempty"`
	Strengths []string `json:"strengths,omitempty"`
	Concerns  []string `json:"concerns,omitempty"`
	Raw       string   `json:"-"`
	Error     string   `json:"error,omitempty"`
}

// Profile is the candidate data sent to a reviewer.
type Profile struct {
	Name           string
	Text           string
	Degree         string
	WorkExperience string
	Scores         ranking.ScoredCandidate
}

type Reviewer interface {
	Review(ctx context.Context, job ranking.JobDescription, profile Profile) (*Review, error)
}
