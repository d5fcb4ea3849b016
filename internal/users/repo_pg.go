package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, name, surname, email, password, organization, status, permission, picture, registered_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Surname,
		user.Email,
		user.Password,
		user.Organization,
		user.Status,
		user.Permission,
		user.Picture,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

const userColumns = `
id, name, surname, email, password, organization, status, permission, picture, last_login, registered_at, updated_at`

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) UpdateStatus(ctx context.Context, userID, status string) error {
	const query = `
UPDATE users
SET status = $2, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, status)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	const query = `
UPDATE users
SET last_login = $2, updated_at = now()
WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, userID, at)
	return err
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Surname,
		&user.Email,
		&user.Password,
		&user.Organization,
		&user.Status,
		&user.Permission,
		&user.Picture,
		&lastLogin,
		&user.RegisteredAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
