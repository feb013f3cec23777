package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/markdave123-py/joba/internal/core/database"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
)

// listPage runs the shared per-user listing: containment filter, status-then-
// recency sort, count + page in two queries.
func listPage[T any](ctx context.Context, col *database.Collection[T], userID string, opts ListOptions) (models.Page[T], error) {
	page, perPage := models.NormalizePage(opts.Page, opts.PerPage)

	extra := map[string]any{}
	if opts.Status != "" {
		extra["status"] = opts.Status
	}
	filter := database.UserFilter(userID, extra)

	total, err := col.Count(ctx, filter)
	if err != nil {
		return models.Page[T]{}, err
	}

	payload, err := json.Marshal(filter)
	if err != nil {
		return models.Page[T]{}, errs.Database("failed to list "+col.Table(), err)
	}

	q := fmt.Sprintf(`
		SELECT id, data, created_at, updated_at FROM %s
		WHERE data @> $1
		ORDER BY %s
		OFFSET $2 LIMIT $3`, col.Table(), database.StatusOrder)
	rows, err := col.DB().QueryContext(ctx, q, payload, (page-1)*perPage, perPage)
	if err != nil {
		return models.Page[T]{}, errs.Database("failed to list "+col.Table(), err)
	}
	defer rows.Close()

	items := make([]T, 0, perPage)
	for rows.Next() {
		var (
			id                   string
			data                 []byte
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
			return models.Page[T]{}, errs.Database("failed to list "+col.Table(), err)
		}
		entity, err := col.Decode(id, data, createdAt, updatedAt, database.GetOptions{})
		if err != nil {
			return models.Page[T]{}, err
		}
		items = append(items, entity)
	}
	if err := rows.Err(); err != nil {
		return models.Page[T]{}, errs.Database("failed to list "+col.Table(), err)
	}

	return models.Page[T]{
		List:       items,
		Pagination: models.NewPagination(total, page, perPage),
	}, nil
}
