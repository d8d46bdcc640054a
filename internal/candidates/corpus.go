package candidates

import (
	"fmt"
	"strings"
)

// CorpusColumns are the profile columns joined into a candidate's text.
var CorpusColumns = []string{
	"degree",
	"education_segment",
	"job_titles",
	"projects_segment",
	"skills",
	"skills_segment",
	"text",
	"university_0",
	"university_1",
	"work_experience",
}

// BuildCorpus replaces the text of every record with its profile columns joined
// by single spaces. Nil values contribute an empty string. A record without one
// of the columns is an error.
func BuildCorpus(records []Record) error {
	for i, record := range records {
		parts := make([]string, 0, len(CorpusColumns))
		for _, column := range CorpusColumns {
			v, ok := record[column]
			if !ok {
				return fmt.Errorf("record %d: corpus column %q is missing", i, column)
			}
			parts = append(parts, stringify(v))
		}
		record["text"] = strings.Join(parts, " ")
	}
	return nil
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
