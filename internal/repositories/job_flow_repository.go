package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/markdave123-py/joba/internal/core/database"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
)

type jobFlowRepository struct {
	col *database.Collection[models.JobFlow]
}

func NewJobFlowRepository(client *database.Client) JobFlowRepository {
	return &jobFlowRepository{
		col: database.NewCollection[models.JobFlow](client.DB(), "job_flows", "job flow"),
	}
}

func (r *jobFlowRepository) Create(ctx context.Context, fields map[string]any) (models.JobFlow, error) {
	return r.col.Create(ctx, fields)
}

func (r *jobFlowRepository) Get(ctx context.Context, id string) (models.JobFlow, error) {
	return r.col.Get(ctx, id, database.GetOptions{})
}

func (r *jobFlowRepository) Update(ctx context.Context, id string, fields map[string]any) (models.JobFlow, error) {
	return r.col.Update(ctx, id, fields, database.GetOptions{})
}

func (r *jobFlowRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// ListDetailed joins the referenced resume, cover letter and job query onto
// each flow. References are left-joined so a flow whose counterpart was
// deleted still lists, with empty summary fields.
func (r *jobFlowRepository) ListDetailed(ctx context.Context, userID string, opts ListOptions) (models.Page[models.JobFlowDetail], error) {
	page, perPage := models.NormalizePage(opts.Page, opts.PerPage)

	where := `f.data->>'user_id' = $1`
	args := []any{userID}
	if opts.Status != "" {
		where += ` AND f.data->>'status' = $2`
		args = append(args, opts.Status)
	}

	var total int
	countQ := `SELECT count(*) FROM job_flows f WHERE ` + where
	if err := r.col.DB().QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return models.Page[models.JobFlowDetail]{}, errs.Database("failed to list job flows", err)
	}

	n := len(args)
	listQ := `
		SELECT f.id, f.data->>'user_id', f.data->>'source', f.data->>'status',
		       f.created_at, f.updated_at,
		       f.data->>'resume_id', r.data->>'filename',
		       f.data->>'cover_letter_id', c.data->>'name', c.data->'content',
		       f.data->>'job_query_id', q.data->>'name', q.data->>'query'
		FROM job_flows f
		LEFT JOIN resumes r ON r.id::text = f.data->>'resume_id'
		LEFT JOIN cover_letters c ON c.id::text = f.data->>'cover_letter_id'
		LEFT JOIN job_queries q ON q.id::text = f.data->>'job_query_id'
		WHERE ` + where + `
		ORDER BY f.data->>'status' ASC, f.updated_at DESC
		OFFSET ` + fmt.Sprintf("$%d LIMIT $%d", n+1, n+2)
	args = append(args, (page-1)*perPage, perPage)

	rows, err := r.col.DB().QueryContext(ctx, listQ, args...)
	if err != nil {
		return models.Page[models.JobFlowDetail]{}, errs.Database("failed to list job flows", err)
	}
	defer rows.Close()

	items := make([]models.JobFlowDetail, 0, perPage)
	for rows.Next() {
		var (
			d                    models.JobFlowDetail
			source, status       string
			createdAt, updatedAt time.Time
			resumeID, resumeName sql.NullString
			letterID, letterName sql.NullString
			letterContent        []byte
			queryID, queryName   sql.NullString
			queryText            sql.NullString
		)
		err := rows.Scan(&d.ID, &d.UserID, &source, &status,
			&createdAt, &updatedAt,
			&resumeID, &resumeName,
			&letterID, &letterName, &letterContent,
			&queryID, &queryName, &queryText)
		if err != nil {
			return models.Page[models.JobFlowDetail]{}, errs.Database("failed to list job flows", err)
		}
		d.Source = models.JobFlowSource(source)
		d.Status = models.JobFlowStatus(status)
		d.CreatedAt = createdAt.UTC()
		d.UpdatedAt = updatedAt.UTC()
		d.Resume = models.JobFlowResumeRef{ID: resumeID.String, Filename: resumeName.String}
		d.CoverLetter = models.JobFlowCoverLetterRef{
			ID:      letterID.String,
			Name:    letterName.String,
			Content: unmarshalContent(letterContent),
		}
		d.JobQuery = models.JobFlowJobQueryRef{ID: queryID.String, Name: queryName.String, Query: queryText.String}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.JobFlowDetail]{}, errs.Database("failed to list job flows", err)
	}

	return models.Page[models.JobFlowDetail]{
		List:       items,
		Pagination: models.NewPagination(total, page, perPage),
	}, nil
}
