package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/joba/internal/core/errs"
)

// Collection is a generic document repository over one table. Every table has
// the same shape: a database-generated uuid id, a jsonb data column and the
// two timestamp columns. The mapping from stored document to T goes through a
// single json round-trip so it is total: legacy or missing fields fall back to
// the zero value instead of failing per call site.
type Collection[T any] struct {
	db        *sql.DB
	table     string
	singular  string
	sensitive []string
}

// GetOptions controls sensitive-field visibility on reads.
type GetOptions struct {
	IncludeSensitive bool
}

func NewCollection[T any](db *sql.DB, table, singular string, sensitive ...string) *Collection[T] {
	return &Collection[T]{db: db, table: table, singular: singular, sensitive: sensitive}
}

// DB exposes the pool for entity-specific queries layered on top.
func (c *Collection[T]) DB() *sql.DB { return c.db }

// Table returns the backing table name.
func (c *Collection[T]) Table() string { return c.table }

// ParseID validates an API-facing identifier. A malformed id is a validation
// failure, distinct from the document simply not existing.
func (c *Collection[T]) ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", errs.Validation("invalid " + c.singular + " ID format")
	}
	return parsed.String(), nil
}

// Create inserts a document and returns the stored entity with the generated
// id attached. Sensitive fields are included: the caller just supplied them.
func (c *Collection[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var zero T
	payload, err := json.Marshal(fields)
	if err != nil {
		return zero, errs.Database("failed to create "+c.singular, err)
	}

	q := fmt.Sprintf(`INSERT INTO %s (data) VALUES ($1) RETURNING id, data, created_at, updated_at`, c.table)
	var (
		id                   string
		data                 []byte
		createdAt, updatedAt time.Time
	)
	if err := c.db.QueryRowContext(ctx, q, payload).Scan(&id, &data, &createdAt, &updatedAt); err != nil {
		return zero, errs.Database("failed to create "+c.singular, err)
	}
	return c.Decode(id, data, createdAt, updatedAt, GetOptions{IncludeSensitive: true})
}

// Get fetches one document by id.
func (c *Collection[T]) Get(ctx context.Context, id string, opts GetOptions) (T, error) {
	var zero T
	parsed, err := c.ParseID(id)
	if err != nil {
		return zero, err
	}

	q := fmt.Sprintf(`SELECT data, created_at, updated_at FROM %s WHERE id = $1`, c.table)
	var (
		data                 []byte
		createdAt, updatedAt time.Time
	)
	err = c.db.QueryRowContext(ctx, q, parsed).Scan(&data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, errs.NotFound(c.singular + " not found")
	}
	if err != nil {
		return zero, errs.Database("failed to get "+c.singular, err)
	}
	return c.Decode(parsed, data, createdAt, updatedAt, opts)
}

// List returns documents matching the containment filter, newest first.
func (c *Collection[T]) List(ctx context.Context, filter map[string]any, skip, limit int, opts GetOptions) ([]T, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	payload, err := json.Marshal(filter)
	if err != nil {
		return nil, errs.Database("failed to list "+c.table, err)
	}

	q := fmt.Sprintf(`
		SELECT id, data, created_at, updated_at FROM %s
		WHERE data @> $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`, c.table)
	rows, err := c.db.QueryContext(ctx, q, payload, skip, limit)
	if err != nil {
		return nil, errs.Database("failed to list "+c.table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var (
			id                   string
			data                 []byte
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
			return nil, errs.Database("failed to list "+c.table, err)
		}
		entity, err := c.Decode(id, data, createdAt, updatedAt, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Database("failed to list "+c.table, err)
	}
	return out, nil
}

// Count returns the number of documents matching the containment filter.
func (c *Collection[T]) Count(ctx context.Context, filter map[string]any) (int, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	payload, err := json.Marshal(filter)
	if err != nil {
		return 0, errs.Database("failed to count "+c.table, err)
	}
	var n int
	q := fmt.Sprintf(`SELECT count(*) FROM %s WHERE data @> $1`, c.table)
	if err := c.db.QueryRowContext(ctx, q, payload).Scan(&n); err != nil {
		return 0, errs.Database("failed to count "+c.table, err)
	}
	return n, nil
}

// Update applies a partial merge onto the stored document and stamps the
// update timestamp.
func (c *Collection[T]) Update(ctx context.Context, id string, fields map[string]any, opts GetOptions) (T, error) {
	var zero T
	parsed, err := c.ParseID(id)
	if err != nil {
		return zero, err
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return zero, errs.Database("failed to update "+c.singular, err)
	}

	q := fmt.Sprintf(`
		UPDATE %s SET data = data || $2, updated_at = now()
		WHERE id = $1
		RETURNING data, created_at, updated_at`, c.table)
	var (
		data                 []byte
		createdAt, updatedAt time.Time
	)
	err = c.db.QueryRowContext(ctx, q, parsed, payload).Scan(&data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, errs.NotFound(c.singular + " not found")
	}
	if err != nil {
		return zero, errs.Database("failed to update "+c.singular, err)
	}
	return c.Decode(parsed, data, createdAt, updatedAt, opts)
}

// Delete removes a document; deleting a missing document is NotFound.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	parsed, err := c.ParseID(id)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	res, err := c.db.ExecContext(ctx, q, parsed)
	if err != nil {
		return errs.Database("failed to delete "+c.singular, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Database("failed to delete "+c.singular, err)
	}
	if n == 0 {
		return errs.NotFound(c.singular + " not found")
	}
	return nil
}

// Decode maps one stored document to T, attaching the id and timestamp
// columns and stripping sensitive fields unless requested.
func (c *Collection[T]) Decode(id string, data []byte, createdAt, updatedAt time.Time, opts GetOptions) (T, error) {
	var zero T
	doc := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return zero, errs.Database("failed to decode "+c.singular, err)
		}
	}
	doc["id"] = id
	doc["created_at"] = createdAt.UTC().Format(time.RFC3339Nano)
	doc["updated_at"] = updatedAt.UTC().Format(time.RFC3339Nano)

	if !opts.IncludeSensitive {
		for _, f := range c.sensitive {
			delete(doc, f)
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, errs.Database("failed to decode "+c.singular, err)
	}
	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return zero, errs.Database("failed to decode "+c.singular, err)
	}
	return entity, nil
}

// StatusOrder is the list sort used across entities: active-like statuses
// first, newest first within a status.
const StatusOrder = `data->>'status' ASC, updated_at DESC`

// UserFilter builds the containment filter shared by the per-user listings.
func UserFilter(userID string, extra map[string]any) map[string]any {
	f := map[string]any{"user_id": userID}
	for k, v := range extra {
		f[k] = v
	}
	return f
}
