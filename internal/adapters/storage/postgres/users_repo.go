package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"medtrack/internal/domain/users"

	"github.com/jackc/pgx/v5/pgconn"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, first_name, email, password_hash, created_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		u.ID,
		u.FirstName,
		u.Email,
		u.PasswordHash,
		u.CreatedAt,
	)
	if err != nil {
		// unique_violation sobre el índice de email: dos signups
		// concurrentes pasaron el chequeo previo del service.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return users.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id)

	return scanUser(row)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return users.User{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)

	return scanUser(row)
}

func scanUser(row *sql.Row) (users.User, error) {
	var u users.User
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}
