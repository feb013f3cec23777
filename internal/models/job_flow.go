package models

import "time"

type JobFlowSource string

const (
	JobFlowInternal JobFlowSource = "internal"
	JobFlowLinkedIn JobFlowSource = "linkedin"
)

func (s JobFlowSource) Valid() bool {
	return s == JobFlowInternal || s == JobFlowLinkedIn
}

// JobFlow links one resume, one cover letter and one job query. All three
// references must exist and belong to the flow's owner at creation time.
type JobFlow struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	ResumeID      string        `json:"resume_id"`
	CoverLetterID string        `json:"cover_letter_id"`
	JobQueryID    string        `json:"job_query_id"`
	Source        JobFlowSource `json:"source"`
	Status        JobFlowStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// JobFlowDetail is the list-endpoint shape: the flow plus summaries of the
// referenced entities, so clients don't fan out three extra reads per row.
type JobFlowDetail struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Source    JobFlowSource `json:"source"`
	Status    JobFlowStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Resume      JobFlowResumeRef      `json:"resume"`
	CoverLetter JobFlowCoverLetterRef `json:"cover_letter"`
	JobQuery    JobFlowJobQueryRef    `json:"job_query"`
}

type JobFlowResumeRef struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

type JobFlowCoverLetterRef struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Content *CoverLetterContent `json:"content,omitempty"`
}

type JobFlowJobQueryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query"`
}
