package models

import "github.com/markdave123-py/joba/internal/core/errs"

// Entity lifecycle statuses. Each entity uses one canonical enum; transitions
// are one-directional (active -> archived -> deleted) and anything else is a
// validation error.

type ResumeStatus string

const (
	ResumeActive   ResumeStatus = "active"
	ResumeArchived ResumeStatus = "archived"
	ResumeDeleted  ResumeStatus = "deleted"
)

func (s ResumeStatus) Valid() bool {
	switch s {
	case ResumeActive, ResumeArchived, ResumeDeleted:
		return true
	}
	return false
}

type CoverLetterStatus string

const (
	CoverLetterActive   CoverLetterStatus = "active"
	CoverLetterArchived CoverLetterStatus = "archived"
	CoverLetterDeleted  CoverLetterStatus = "deleted"
)

func (s CoverLetterStatus) Valid() bool {
	switch s {
	case CoverLetterActive, CoverLetterArchived, CoverLetterDeleted:
		return true
	}
	return false
}

type JobQueryStatus string

const (
	JobQueryActive   JobQueryStatus = "active"
	JobQueryArchived JobQueryStatus = "archived"
)

func (s JobQueryStatus) Valid() bool {
	return s == JobQueryActive || s == JobQueryArchived
}

type JobFlowStatus string

const (
	JobFlowActive   JobFlowStatus = "active"
	JobFlowPaused   JobFlowStatus = "paused"
	JobFlowArchived JobFlowStatus = "archived"
)

func (s JobFlowStatus) Valid() bool {
	switch s {
	case JobFlowActive, JobFlowPaused, JobFlowArchived:
		return true
	}
	return false
}

// statusRank orders the tri-state lifecycle for transition checks.
var statusRank = map[string]int{
	"active":   0,
	"archived": 1,
	"deleted":  2,
}

// CheckLifecycleTransition rejects moves backwards through the lifecycle
// (archived resumes cannot become active again, deleted is terminal).
func CheckLifecycleTransition(from, to string) error {
	fr, ok1 := statusRank[from]
	tr, ok2 := statusRank[to]
	if !ok1 || !ok2 {
		return errs.Validation("invalid status value")
	}
	if tr < fr {
		return errs.Validation("illegal status transition from " + from + " to " + to)
	}
	return nil
}
