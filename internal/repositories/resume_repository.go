package repositories

import (
	"context"

	"github.com/markdave123-py/joba/internal/core/database"
	"github.com/markdave123-py/joba/internal/models"
)

type resumeRepository struct {
	col *database.Collection[models.Resume]
}

func NewResumeRepository(client *database.Client) ResumeRepository {
	return &resumeRepository{
		col: database.NewCollection[models.Resume](client.DB(), "resumes", "resume"),
	}
}

func (r *resumeRepository) Create(ctx context.Context, fields map[string]any) (models.Resume, error) {
	return r.col.Create(ctx, fields)
}

func (r *resumeRepository) Get(ctx context.Context, id string) (models.Resume, error) {
	return r.col.Get(ctx, id, database.GetOptions{})
}

func (r *resumeRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) (models.Page[models.Resume], error) {
	return listPage(ctx, r.col, userID, opts)
}

func (r *resumeRepository) Update(ctx context.Context, id string, fields map[string]any) (models.Resume, error) {
	return r.col.Update(ctx, id, fields, database.GetOptions{})
}

func (r *resumeRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}
