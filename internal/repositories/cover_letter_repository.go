package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/markdave123-py/joba/internal/core/database"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
)

// searchVector must stay in sync with the expression index in initdb.sql.
const searchVector = `to_tsvector('english',
	coalesce(data->>'name', '') || ' ' ||
	coalesce(data->>'job_title', '') || ' ' ||
	coalesce(data->>'company_name', '') || ' ' ||
	coalesce(data#>>'{content,introduction}', '') || ' ' ||
	coalesce(data#>>'{content,body_part_1}', '') || ' ' ||
	coalesce(data#>>'{content,body_part_2}', '') || ' ' ||
	coalesce(data#>>'{content,conclusion}', ''))`

type coverLetterRepository struct {
	col *database.Collection[models.CoverLetter]
}

func NewCoverLetterRepository(client *database.Client) CoverLetterRepository {
	return &coverLetterRepository{
		col: database.NewCollection[models.CoverLetter](client.DB(), "cover_letters", "cover letter"),
	}
}

func (r *coverLetterRepository) Create(ctx context.Context, fields map[string]any) (models.CoverLetter, error) {
	return r.col.Create(ctx, fields)
}

func (r *coverLetterRepository) Get(ctx context.Context, id string) (models.CoverLetter, error) {
	return r.col.Get(ctx, id, database.GetOptions{})
}

func (r *coverLetterRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) (models.Page[models.CoverLetter], error) {
	return listPage(ctx, r.col, userID, opts)
}

func (r *coverLetterRepository) Update(ctx context.Context, id string, fields map[string]any) (models.CoverLetter, error) {
	return r.col.Update(ctx, id, fields, database.GetOptions{})
}

func (r *coverLetterRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// ActivateExclusive flips the target letter active and every other letter of
// the same owner inactive. Both writes run in one transaction so concurrent
// activations cannot leave two letters active.
func (r *coverLetterRepository) ActivateExclusive(ctx context.Context, userID, id string) error {
	parsed, err := r.col.ParseID(id)
	if err != nil {
		return err
	}

	tx, err := r.col.DB().BeginTx(ctx, nil)
	if err != nil {
		return errs.Database("failed to activate cover letter", err)
	}

	const deactivate = `
		UPDATE cover_letters
		SET data = data || '{"active": false}', updated_at = now()
		WHERE data->>'user_id' = $1 AND id <> $2 AND data->>'active' = 'true'`
	if _, err := tx.ExecContext(ctx, deactivate, userID, parsed); err != nil {
		_ = tx.Rollback()
		return errs.Database("failed to deactivate cover letters", err)
	}

	const activate = `
		UPDATE cover_letters
		SET data = data || '{"active": true}', updated_at = now()
		WHERE id = $1 AND data->>'user_id' = $2`
	res, err := tx.ExecContext(ctx, activate, parsed, userID)
	if err != nil {
		_ = tx.Rollback()
		return errs.Database("failed to activate cover letter", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return errs.NotFound("cover letter not found")
	}

	if err := tx.Commit(); err != nil {
		return errs.Database("failed to activate cover letter", err)
	}
	return nil
}

func (r *coverLetterRepository) GetActive(ctx context.Context, userID string) (models.CoverLetter, bool, error) {
	const q = `
		SELECT id, data, created_at, updated_at FROM cover_letters
		WHERE data->>'user_id' = $1 AND data->>'active' = 'true'
		LIMIT 1`
	var (
		id                   string
		data                 []byte
		createdAt, updatedAt time.Time
	)
	err := r.col.DB().QueryRowContext(ctx, q, userID).Scan(&id, &data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CoverLetter{}, false, nil
	}
	if err != nil {
		return models.CoverLetter{}, false, errs.Database("failed to get active cover letter", err)
	}
	letter, err := r.col.Decode(id, data, createdAt, updatedAt, database.GetOptions{})
	if err != nil {
		return models.CoverLetter{}, false, err
	}
	return letter, true, nil
}

// Search runs a full-text query over name, job title, company name and the
// four content sections.
func (r *coverLetterRepository) Search(ctx context.Context, userID, query string, page, perPage int) (models.Page[models.CoverLetter], error) {
	page, perPage = models.NormalizePage(page, perPage)

	countQ := `SELECT count(*) FROM cover_letters WHERE data->>'user_id' = $1 AND ` +
		searchVector + ` @@ plainto_tsquery('english', $2)`
	var total int
	if err := r.col.DB().QueryRowContext(ctx, countQ, userID, query).Scan(&total); err != nil {
		return models.Page[models.CoverLetter]{}, errs.Database("failed to search cover letters", err)
	}

	listQ := `
		SELECT id, data, created_at, updated_at FROM cover_letters
		WHERE data->>'user_id' = $1 AND ` + searchVector + ` @@ plainto_tsquery('english', $2)
		ORDER BY updated_at DESC
		OFFSET $3 LIMIT $4`
	rows, err := r.col.DB().QueryContext(ctx, listQ, userID, query, (page-1)*perPage, perPage)
	if err != nil {
		return models.Page[models.CoverLetter]{}, errs.Database("failed to search cover letters", err)
	}
	defer rows.Close()

	items := make([]models.CoverLetter, 0, perPage)
	for rows.Next() {
		var (
			id                   string
			data                 []byte
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
			return models.Page[models.CoverLetter]{}, errs.Database("failed to search cover letters", err)
		}
		letter, err := r.col.Decode(id, data, createdAt, updatedAt, database.GetOptions{})
		if err != nil {
			return models.Page[models.CoverLetter]{}, err
		}
		items = append(items, letter)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.CoverLetter]{}, errs.Database("failed to search cover letters", err)
	}

	return models.Page[models.CoverLetter]{
		List:       items,
		Pagination: models.NewPagination(total, page, perPage),
	}, nil
}

// unmarshalContent keeps job-flow enrichment tolerant of legacy rows.
func unmarshalContent(raw []byte) *models.CoverLetterContent {
	if len(raw) == 0 {
		return nil
	}
	var c models.CoverLetterContent
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	return &c
}
