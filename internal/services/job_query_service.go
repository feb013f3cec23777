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

// JobQueryInput carries the client-writable job query fields. Queries start
// archived unless the client says otherwise, so half-built searches don't run.
type JobQueryInput struct {
	Name     string                   `json:"name" validate:"required"`
	Keywords *models.JobQueryKeywords `json:"keywords"`
	Query    string                   `json:"query"`
	Status   models.JobQueryStatus    `json:"status"`
}

type JobQueryService struct {
	queries  repositories.JobQueryRepository
	resumes  repositories.ResumeRepository
	analyzer llm.Analyzer
	logger   *zap.Logger
}

func NewJobQueryService(queries repositories.JobQueryRepository, resumes repositories.ResumeRepository, analyzer llm.Analyzer, logger *zap.Logger) *JobQueryService {
	return &JobQueryService{queries: queries, resumes: resumes, analyzer: analyzer, logger: logger}
}

func (s *JobQueryService) Create(ctx context.Context, userID string, in JobQueryInput) (models.JobQuery, error) {
	status := in.Status
	if status == "" {
		status = models.JobQueryArchived
	}
	if !status.Valid() {
		return models.JobQuery{}, errs.Validation("invalid status value")
	}

	keywords := models.JobQueryKeywords{}
	if in.Keywords != nil {
		keywords = *in.Keywords
	}
	query := in.Query
	if query == "" {
		query = BuildQueryString(keywords)
	}

	return s.queries.Create(ctx, map[string]any{
		"user_id":  userID,
		"name":     in.Name,
		"keywords": keywords,
		"query":    query,
		"status":   status,
	})
}

func (s *JobQueryService) Get(ctx context.Context, userID, id string) (models.JobQuery, error) {
	query, err := s.queries.Get(ctx, id)
	if err != nil {
		return models.JobQuery{}, err
	}
	if query.UserID != userID {
		return models.JobQuery{}, errs.NotFound("job query not found")
	}
	return query, nil
}

func (s *JobQueryService) List(ctx context.Context, userID string, opts repositories.ListOptions) (models.Page[models.JobQuery], error) {
	if opts.Status != "" && !models.JobQueryStatus(opts.Status).Valid() {
		return models.Page[models.JobQuery]{}, errs.Validation("invalid status value")
	}
	return s.queries.ListByUser(ctx, userID, opts)
}

func (s *JobQueryService) Update(ctx context.Context, userID, id string, in JobQueryInput) (models.JobQuery, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return models.JobQuery{}, err
	}

	fields := map[string]any{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Keywords != nil {
		fields["keywords"] = *in.Keywords
		if in.Query == "" {
			fields["query"] = BuildQueryString(*in.Keywords)
		}
	}
	if in.Query != "" {
		fields["query"] = in.Query
	}
	if len(fields) == 0 {
		return s.queries.Get(ctx, id)
	}
	return s.queries.Update(ctx, id, fields)
}

// UpdateStatus toggles a query between active and archived. Unlike resumes
// and cover letters there is no terminal state: archived queries reactivate.
func (s *JobQueryService) UpdateStatus(ctx context.Context, userID, id string, status models.JobQueryStatus) (models.JobQuery, error) {
	if !status.Valid() {
		return models.JobQuery{}, errs.Validation("invalid status value")
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return models.JobQuery{}, err
	}
	return s.queries.Update(ctx, id, map[string]any{"status": status})
}

func (s *JobQueryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.queries.Delete(ctx, id)
}

// GenerateKeywords derives the five keyword categories from a resume's
// candidate data. The resume must belong to the caller.
func (s *JobQueryService) GenerateKeywords(ctx context.Context, userID, resumeID string) (models.JobQueryKeywords, error) {
	resume, err := s.resumes.Get(ctx, resumeID)
	if err != nil {
		return models.JobQueryKeywords{}, err
	}
	if resume.UserID != userID {
		return models.JobQueryKeywords{}, errs.NotFound("resume not found")
	}
	if len(resume.Candidate) == 0 {
		return models.JobQueryKeywords{}, errs.Validation("resume has no candidate data")
	}
	return s.analyzer.GenerateJobQueryKeywords(ctx, resume.Candidate)
}

// BuildQueryString renders the keyword bundle as a boolean search string:
// title and position alternatives OR-ed, skills AND-ed, exclusions negated.
func BuildQueryString(k models.JobQueryKeywords) string {
	var parts []string
	if or := orGroup(append(append([]string{}, k.JobTitles...), k.Positions...)); or != "" {
		parts = append(parts, or)
	}
	for _, skill := range k.RequiredSkills {
		if skill != "" {
			parts = append(parts, quote(skill))
		}
	}
	if or := orGroup(k.WorkArrangements); or != "" {
		parts = append(parts, or)
	}
	for _, word := range k.ExcludeWords {
		if word != "" {
			parts = append(parts, "NOT "+quote(word))
		}
	}
	return strings.Join(parts, " AND ")
}

func orGroup(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			quoted = append(quoted, quote(t))
		}
	}
	if len(quoted) == 0 {
		return ""
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}

func quote(s string) string {
	if strings.Contains(s, " ") {
		return `"` + s + `"`
	}
	return s
}
