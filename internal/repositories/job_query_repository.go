package repositories

import (
	"context"

	"github.com/markdave123-py/joba/internal/core/database"
	"github.com/markdave123-py/joba/internal/models"
)

type jobQueryRepository struct {
	col *database.Collection[models.JobQuery]
}

func NewJobQueryRepository(client *database.Client) JobQueryRepository {
	return &jobQueryRepository{
		col: database.NewCollection[models.JobQuery](client.DB(), "job_queries", "job query"),
	}
}

func (r *jobQueryRepository) Create(ctx context.Context, fields map[string]any) (models.JobQuery, error) {
	return r.col.Create(ctx, fields)
}

func (r *jobQueryRepository) Get(ctx context.Context, id string) (models.JobQuery, error) {
	return r.col.Get(ctx, id, database.GetOptions{})
}

func (r *jobQueryRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) (models.Page[models.JobQuery], error) {
	return listPage(ctx, r.col, userID, opts)
}

func (r *jobQueryRepository) Update(ctx context.Context, id string, fields map[string]any) (models.JobQuery, error) {
	return r.col.Update(ctx, id, fields, database.GetOptions{})
}

func (r *jobQueryRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}
