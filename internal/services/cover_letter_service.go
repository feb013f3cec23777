package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/core/llm"
	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/repositories"
)

// CoverLetterInput carries the client-writable cover letter fields.
type CoverLetterInput struct {
	Name        string                     `json:"name" validate:"required"`
	Content     *models.CoverLetterContent `json:"content"`
	JobTitle    string                     `json:"job_title"`
	CompanyName string                     `json:"company_name"`
	Tags        []string                   `json:"tags"`
	Active      *bool                      `json:"active"`
}

type CoverLetterService struct {
	letters  repositories.CoverLetterRepository
	resumes  repositories.ResumeRepository
	analyzer llm.Analyzer
	logger   *zap.Logger
}

func NewCoverLetterService(letters repositories.CoverLetterRepository, resumes repositories.ResumeRepository, analyzer llm.Analyzer, logger *zap.Logger) *CoverLetterService {
	return &CoverLetterService{letters: letters, resumes: resumes, analyzer: analyzer, logger: logger}
}

func (s *CoverLetterService) Create(ctx context.Context, userID string, in CoverLetterInput) (models.CoverLetter, error) {
	tags, err := models.NormalizeTags(in.Tags)
	if err != nil {
		return models.CoverLetter{}, err
	}

	content := models.CoverLetterContent{}
	if in.Content != nil {
		content = *in.Content
	}
	active := in.Active != nil && *in.Active

	letter, err := s.letters.Create(ctx, map[string]any{
		"user_id":      userID,
		"name":         in.Name,
		"content":      content,
		"status":       models.CoverLetterActive,
		"job_title":    in.JobTitle,
		"company_name": in.CompanyName,
		"tags":         tags,
		"active":       active,
	})
	if err != nil {
		return models.CoverLetter{}, err
	}

	if active {
		if err := s.letters.ActivateExclusive(ctx, userID, letter.ID); err != nil {
			return models.CoverLetter{}, err
		}
	}
	return letter, nil
}

func (s *CoverLetterService) Get(ctx context.Context, userID, id string) (models.CoverLetter, error) {
	letter, err := s.letters.Get(ctx, id)
	if err != nil {
		return models.CoverLetter{}, err
	}
	if letter.UserID != userID {
		return models.CoverLetter{}, errs.NotFound("cover letter not found")
	}
	return letter, nil
}

func (s *CoverLetterService) List(ctx context.Context, userID string, opts repositories.ListOptions) (models.Page[models.CoverLetter], error) {
	if opts.Status != "" && !models.CoverLetterStatus(opts.Status).Valid() {
		return models.Page[models.CoverLetter]{}, errs.Validation("invalid status value")
	}
	return s.letters.ListByUser(ctx, userID, opts)
}

// Update applies a partial update. Setting active=true deactivates every
// other letter of the owner in the same transaction.
func (s *CoverLetterService) Update(ctx context.Context, userID, id string, in CoverLetterInput) (models.CoverLetter, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return models.CoverLetter{}, err
	}

	fields := map[string]any{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.JobTitle != "" {
		fields["job_title"] = in.JobTitle
	}
	if in.CompanyName != "" {
		fields["company_name"] = in.CompanyName
	}
	if in.Tags != nil {
		tags, err := models.NormalizeTags(in.Tags)
		if err != nil {
			return models.CoverLetter{}, err
		}
		fields["tags"] = tags
	}
	if in.Active != nil && !*in.Active {
		fields["active"] = false
	}

	if len(fields) > 0 {
		if _, err := s.letters.Update(ctx, id, fields); err != nil {
			return models.CoverLetter{}, err
		}
	}
	if in.Active != nil && *in.Active {
		if err := s.letters.ActivateExclusive(ctx, userID, id); err != nil {
			return models.CoverLetter{}, err
		}
	}
	return s.letters.Get(ctx, id)
}

func (s *CoverLetterService) UpdateStatus(ctx context.Context, userID, id string, status models.CoverLetterStatus) (models.CoverLetter, error) {
	if !status.Valid() {
		return models.CoverLetter{}, errs.Validation("invalid status value")
	}
	letter, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.CoverLetter{}, err
	}
	if err := models.CheckLifecycleTransition(string(letter.Status), string(status)); err != nil {
		return models.CoverLetter{}, err
	}
	return s.letters.Update(ctx, id, map[string]any{"status": status})
}

func (s *CoverLetterService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.letters.Delete(ctx, id)
}

// GetActive returns the user's single active letter, if any.
func (s *CoverLetterService) GetActive(ctx context.Context, userID string) (models.CoverLetter, bool, error) {
	return s.letters.GetActive(ctx, userID)
}

func (s *CoverLetterService) Search(ctx context.Context, userID, query string, page, perPage int) (models.Page[models.CoverLetter], error) {
	if strings.TrimSpace(query) == "" {
		return models.Page[models.CoverLetter]{}, errs.Validation("search query is required")
	}
	return s.letters.Search(ctx, userID, query, page, perPage)
}

// GenerateSection produces one cover letter section from a resume's candidate
// data. The resume must belong to the caller.
func (s *CoverLetterService) GenerateSection(ctx context.Context, userID, resumeID, prompt, contentType string) (string, error) {
	resume, err := s.resumes.Get(ctx, resumeID)
	if err != nil {
		return "", err
	}
	if resume.UserID != userID {
		return "", errs.NotFound("resume not found")
	}
	if len(resume.Candidate) == 0 {
		return "", errs.Validation("resume has no candidate data")
	}
	return s.analyzer.GenerateCoverLetterContent(ctx, resume.Candidate, prompt, contentType)
}

// Render fills the {{key}} placeholders in content from a job description.
func (s *CoverLetterService) Render(ctx context.Context, jobDescription string, content models.CoverLetterContent) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", errs.Validation("job description is required")
	}
	return s.analyzer.RenderCoverLetter(ctx, jobDescription, content)
}
