// Package report holds the ranked candidates of one ranking run together with
// the job they were ranked against.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/cv-ranker/internal/ai"
	"github.com/spigell/cv-ranker/internal/ranking"
)

// Entry is one ranked candidate with the profile it was scored from.
type Entry struct {
	ranking.ScoredCandidate
	Candidate ranking.Candidate `json:"-"`
	Review    *ai.Review        `json:"review,omitempty"`
}

// Profile returns the candidate profile as plain strings for display and review.
func (e *Entry) Profile() ai.Profile {
	return ai.Profile{
		Name:           e.Name,
		Text:           stringify(e.Candidate.Text),
		Degree:         stringify(e.Candidate.Degree),
		WorkExperience: stringify(e.Candidate.WorkExperience),
		Scores:         e.ScoredCandidate,
	}
}

type Report struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Job       ranking.JobDescription `json:"job"`
	Items     []*Entry               `json:"items"`
}

// New builds a report from ranked results. candidates is the collection that
// was ranked; every result is joined back to its candidate by index.
func New(job ranking.JobDescription, candidates []ranking.Candidate, scored []ranking.ScoredCandidate) *Report {
	items := make([]*Entry, 0, len(scored))
	for _, sc := range scored {
		entry := &Entry{ScoredCandidate: sc}
		if sc.Index >= 0 && sc.Index < len(candidates) {
			entry.Candidate = candidates[sc.Index]
		}
		items = append(items, entry)
	}

	return &Report{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Job:       job,
		Items:     items,
	}
}

func (r *Report) Len() int {
	return len(r.Items)
}

func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		names = append(names, item.Name)
	}
	return names
}

func (r *Report) FindByName(name string) *Entry {
	for _, item := range r.Items {
		if item.Name == name {
			return item
		}
	}
	return nil
}

// Exclude removes every entry whose name is in names and returns the removed names.
// The ranking order of the remaining entries is kept.
func (r *Report) Exclude(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	var excluded []string
	r.Items = slices.DeleteFunc(r.Items, func(e *Entry) bool {
		if slices.Contains(names, e.Name) {
			excluded = append(excluded, e.Name)
			return true
		}
		return false
	})
	return excluded
}

// DropBelow removes entries with a final score under threshold.
func (r *Report) DropBelow(threshold float64) []string {
	var dropped []string
	r.Items = slices.DeleteFunc(r.Items, func(e *Entry) bool {
		if e.FinalScore < threshold {
			dropped = append(dropped, e.Name)
			return true
		}
		return false
	})
	return dropped
}

// Truncate keeps the first n entries and returns the names of the rest.
func (r *Report) Truncate(n int) []string {
	if n < 0 || n >= len(r.Items) {
		return nil
	}

	dropped := make([]string, 0, len(r.Items)-n)
	for _, item := range r.Items[n:] {
		dropped = append(dropped, item.Name)
	}
	r.Items = r.Items[:n]
	return dropped
}

func (r *Report) ToExcluded(reason string) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, item := range r.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			Name:       item.Name,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// WriteTable renders the ranking as an aligned text table.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tFINAL\tTEXT\tDEGREE\tEXPERIENCE\tREVIEW")
	for i, item := range r.Items {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.1f\t%.1f\t%s\n",
			i+1,
			item.Name,
			item.FinalScore,
			item.TextSimilarity,
			item.DegreeMatch,
			item.ExperienceMatch,
			reviewCell(item.Review),
		)
	}
	return tw.Flush()
}

func reviewCell(review *ai.Review) string {
	switch {
	case review == nil:
		return "-"
	case review.Error != "":
		return "error: " + review.Error
	default:
		return fmt.Sprintf("%.2f %s", review.Score, strings.TrimSpace(review.Summary))
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
