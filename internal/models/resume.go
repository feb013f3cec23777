package models

import "time"

// Resume holds the uploaded file reference plus the candidate structure the
// analyzer extracted from it. Scoring and Feedback are filled in by the
// scoring endpoint and stay nil until then.
type Resume struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Filename  string         `json:"filename"`
	FileID    string         `json:"file_id"`
	Status    ResumeStatus   `json:"status"`
	Candidate map[string]any `json:"candidate,omitempty"`
	Scoring   map[string]any `json:"scoring,omitempty"`
	Feedback  map[string]any `json:"feedback,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
