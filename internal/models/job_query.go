package models

import "time"

// JobQueryKeywords bundles the five fixed keyword categories used to build
// search queries. The analyzer generates exactly two terms per category.
type JobQueryKeywords struct {
	JobTitles        []string `json:"job_titles"`
	RequiredSkills   []string `json:"required_skills"`
	WorkArrangements []string `json:"work_arrangements"`
	Positions        []string `json:"positions"`
	ExcludeWords     []string `json:"exclude_words"`
}

type JobQuery struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Name      string           `json:"name"`
	Keywords  JobQueryKeywords `json:"keywords"`
	Query     string           `json:"query"`
	Status    JobQueryStatus   `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
