package repositories

import (
	"context"

	"github.com/markdave123-py/joba/internal/models"
)

// UserRepository persists user documents. Reads strip the password hash
// unless the call explicitly asks for it.
type UserRepository interface {
	Create(ctx context.Context, fields map[string]any) (models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	// FindByLogin matches email OR username and returns the stored hash for
	// credential verification.
	FindByLogin(ctx context.Context, login string) (models.User, string, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]any) (models.User, error)
}

// ListOptions narrows the per-user listings.
type ListOptions struct {
	Page    int
	PerPage int
	Status  string
}

type ResumeRepository interface {
	Create(ctx context.Context, fields map[string]any) (models.Resume, error)
	Get(ctx context.Context, id string) (models.Resume, error)
	ListByUser(ctx context.Context, userID string, opts ListOptions) (models.Page[models.Resume], error)
	Update(ctx context.Context, id string, fields map[string]any) (models.Resume, error)
	Delete(ctx context.Context, id string) error
}

type CoverLetterRepository interface {
	Create(ctx context.Context, fields map[string]any) (models.CoverLetter, error)
	Get(ctx context.Context, id string) (models.CoverLetter, error)
	ListByUser(ctx context.Context, userID string, opts ListOptions) (models.Page[models.CoverLetter], error)
	Update(ctx context.Context, id string, fields map[string]any) (models.CoverLetter, error)
	Delete(ctx context.Context, id string) error
	// ActivateExclusive marks one letter active and all of the owner's other
	// letters inactive in a single transaction.
	ActivateExclusive(ctx context.Context, userID, id string) error
	GetActive(ctx context.Context, userID string) (models.CoverLetter, bool, error)
	Search(ctx context.Context, userID, query string, page, perPage int) (models.Page[models.CoverLetter], error)
}

type JobQueryRepository interface {
	Create(ctx context.Context, fields map[string]any) (models.JobQuery, error)
	Get(ctx context.Context, id string) (models.JobQuery, error)
	ListByUser(ctx context.Context, userID string, opts ListOptions) (models.Page[models.JobQuery], error)
	Update(ctx context.Context, id string, fields map[string]any) (models.JobQuery, error)
	Delete(ctx context.Context, id string) error
}

type JobFlowRepository interface {
	Create(ctx context.Context, fields map[string]any) (models.JobFlow, error)
	Get(ctx context.Context, id string) (models.JobFlow, error)
	// ListDetailed joins in the referenced resume, cover letter and job query
	// summaries.
	ListDetailed(ctx context.Context, userID string, opts ListOptions) (models.Page[models.JobFlowDetail], error)
	Update(ctx context.Context, id string, fields map[string]any) (models.JobFlow, error)
	Delete(ctx context.Context, id string) error
}
