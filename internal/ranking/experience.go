package ranking

import (
	"errors"
	"math"
	"regexp"
	"strconv"
)

var digitsRe = regexp.MustCompile(`[0-9]+`)

// ParseYears extracts the first run of digits in v as a year count.
// Non-string values and strings without digits yield 0.
func ParseYears(v any) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}

	digits := digitsRe.FindString(s)
	if digits == "" {
		return 0
	}

	years, err := strconv.Atoi(digits)
	if err != nil {
		// Only a value too large for int can fail here.
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt
		}
		return 0
	}

	return years
}

// MatchExperience scores every candidate experience against the required years:
// 1.0 when the candidate meets it, 0.5 for some experience and 0.0 for none.
func MatchExperience(jobYears int, experiences []any) []float64 {
	scores := make([]float64, len(experiences))
	for i, exp := range experiences {
		years := ParseYears(exp)
		switch {
		case years >= jobYears:
			scores[i] = 1.0
		case years > 0:
			scores[i] = 0.5
		default:
			scores[i] = 0.0
		}
	}
	return scores
}
