package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/repositories"
)

// JobFlowInput carries the client-writable job flow fields.
type JobFlowInput struct {
	ResumeID      string               `json:"resume_id" validate:"required"`
	CoverLetterID string               `json:"cover_letter_id" validate:"required"`
	JobQueryID    string               `json:"job_query_id" validate:"required"`
	Source        models.JobFlowSource `json:"source"`
}

type JobFlowService struct {
	flows   repositories.JobFlowRepository
	resumes repositories.ResumeRepository
	letters repositories.CoverLetterRepository
	queries repositories.JobQueryRepository
	logger  *zap.Logger
}

func NewJobFlowService(
	flows repositories.JobFlowRepository,
	resumes repositories.ResumeRepository,
	letters repositories.CoverLetterRepository,
	queries repositories.JobQueryRepository,
	logger *zap.Logger,
) *JobFlowService {
	return &JobFlowService{flows: flows, resumes: resumes, letters: letters, queries: queries, logger: logger}
}

// Create validates that all three references exist and belong to the caller
// before inserting anything. A single missing or foreign reference fails the
// whole request.
func (s *JobFlowService) Create(ctx context.Context, userID string, in JobFlowInput) (models.JobFlow, error) {
	source := in.Source
	if source == "" {
		source = models.JobFlowInternal
	}
	if !source.Valid() {
		return models.JobFlow{}, errs.Validation("invalid source value")
	}

	resume, err := s.resumes.Get(ctx, in.ResumeID)
	if err != nil {
		return models.JobFlow{}, err
	}
	if resume.UserID != userID {
		return models.JobFlow{}, errs.NotFound("resume not found")
	}
	letter, err := s.letters.Get(ctx, in.CoverLetterID)
	if err != nil {
		return models.JobFlow{}, err
	}
	if letter.UserID != userID {
		return models.JobFlow{}, errs.NotFound("cover letter not found")
	}
	query, err := s.queries.Get(ctx, in.JobQueryID)
	if err != nil {
		return models.JobFlow{}, err
	}
	if query.UserID != userID {
		return models.JobFlow{}, errs.NotFound("job query not found")
	}

	return s.flows.Create(ctx, map[string]any{
		"user_id":         userID,
		"resume_id":       resume.ID,
		"cover_letter_id": letter.ID,
		"job_query_id":    query.ID,
		"source":          source,
		"status":          models.JobFlowActive,
	})
}

func (s *JobFlowService) Get(ctx context.Context, userID, id string) (models.JobFlow, error) {
	flow, err := s.flows.Get(ctx, id)
	if err != nil {
		return models.JobFlow{}, err
	}
	if flow.UserID != userID {
		return models.JobFlow{}, errs.NotFound("job flow not found")
	}
	return flow, nil
}

// List returns the user's flows enriched with referenced entity summaries.
func (s *JobFlowService) List(ctx context.Context, userID string, opts repositories.ListOptions) (models.Page[models.JobFlowDetail], error) {
	if opts.Status != "" && !models.JobFlowStatus(opts.Status).Valid() {
		return models.Page[models.JobFlowDetail]{}, errs.Validation("invalid status value")
	}
	return s.flows.ListDetailed(ctx, userID, opts)
}

// UpdateStatus moves a flow between active, paused and archived. Archived is
// terminal; active and paused switch freely.
func (s *JobFlowService) UpdateStatus(ctx context.Context, userID, id string, status models.JobFlowStatus) (models.JobFlow, error) {
	if !status.Valid() {
		return models.JobFlow{}, errs.Validation("invalid status value")
	}
	flow, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.JobFlow{}, err
	}
	if flow.Status == models.JobFlowArchived && status != models.JobFlowArchived {
		return models.JobFlow{}, errs.Validation("archived job flows cannot be reactivated")
	}
	return s.flows.Update(ctx, id, map[string]any{"status": status})
}

func (s *JobFlowService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.flows.Delete(ctx, id)
}
