package models

import (
	"sort"
	"time"

	"github.com/markdave123-py/joba/internal/core/errs"
)

const maxTagLength = 50

// CoverLetterContent is the four-section structure every cover letter carries.
// Generated sections may contain {{key}} placeholders to be filled from a job
// description at render time.
type CoverLetterContent struct {
	Introduction string `json:"introduction"`
	BodyPart1    string `json:"body_part_1"`
	BodyPart2    string `json:"body_part_2"`
	Conclusion   string `json:"conclusion"`
}

// ContentTypes are the section names the generation endpoint accepts.
var ContentTypes = map[string]bool{
	"introduction": true,
	"body_part_1":  true,
	"body_part_2":  true,
	"conclusion":   true,
}

type CoverLetter struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Name        string             `json:"name"`
	Content     CoverLetterContent `json:"content"`
	Status      CoverLetterStatus  `json:"status"`
	JobTitle    string             `json:"job_title,omitempty"`
	CompanyName string             `json:"company_name,omitempty"`
	Tags        []string           `json:"tags"`
	Active      bool               `json:"active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NormalizeTags deduplicates tags and rejects overlong ones. The result is
// sorted so repeated updates are stable.
func NormalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if len(t) > maxTagLength {
			return nil, errs.Validation("tag is too long")
		}
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}
