package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/philipbrowne/messagely/internal/common"
	"github.com/philipbrowne/messagely/internal/dbx"
	"github.com/philipbrowne/messagely/internal/server/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 RETURNING join_at, last_login_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone).
		Scan(&user.JoinAt, &user.LastLoginAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, password, first_name, last_name, phone, join_at, last_login_at
		 FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.Phone, &user.JoinAt, &user.LastLoginAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, username string) error {
	query :=
		`UPDATE users SET last_login_at = now()
		 WHERE username = $1
		 `

	res, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) All(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT username, first_name, last_name, phone
		 FROM users
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.Username, &user.FirstName, &user.LastName, &user.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
