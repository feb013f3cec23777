package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/markdave123-py/joba/internal/core/database"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
)

// userRecord is the stored shape: the API model plus the hash field that the
// collection treats as sensitive.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash,omitempty"`
}

type userRepository struct {
	col *database.Collection[userRecord]
}

func NewUserRepository(client *database.Client) UserRepository {
	return &userRepository{
		col: database.NewCollection[userRecord](client.DB(), "users", "user", "password_hash"),
	}
}

func (r *userRepository) Create(ctx context.Context, fields map[string]any) (models.User, error) {
	rec, err := r.col.Create(ctx, fields)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, errs.Conflict("email or username already taken")
		}
		return models.User{}, err
	}
	return rec.User, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (models.User, error) {
	rec, err := r.col.Get(ctx, id, database.GetOptions{})
	if err != nil {
		return models.User{}, err
	}
	return rec.User, nil
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (models.User, string, error) {
	const q = `
		SELECT id, data, created_at, updated_at FROM users
		WHERE data->>'email' = $1 OR data->>'username' = $1
		LIMIT 1`
	var (
		id   string
		data []byte
	)
	var createdAt, updatedAt sql.NullTime
	err := r.col.DB().QueryRowContext(ctx, q, login).Scan(&id, &data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", errs.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, "", errs.Database("failed to get user", err)
	}
	rec, err := r.col.Decode(id, data, createdAt.Time, updatedAt.Time, database.GetOptions{IncludeSensitive: true})
	if err != nil {
		return models.User{}, "", err
	}
	return rec.User, rec.PasswordHash, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := r.col.Count(ctx, map[string]any{"email": email})
	return n > 0, err
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	n, err := r.col.Count(ctx, map[string]any{"username": username})
	return n > 0, err
}

func (r *userRepository) Update(ctx context.Context, id string, fields map[string]any) (models.User, error) {
	rec, err := r.col.Update(ctx, id, fields, database.GetOptions{})
	if err != nil {
		return models.User{}, err
	}
	return rec.User, nil
}
