package messages

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

// pgForeignKeyViolation is the PostgreSQL error code for foreign_key_violation.
const pgForeignKeyViolation = "23503"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, now())
		 RETURNING id, sent_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.FromUsername, msg.ToUsername, msg.Body).Scan(&msg.ID, &msg.SentAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, common.ErrUnknownUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        m.from_username, f.first_name, f.last_name, f.phone,
		        m.to_username, t.first_name, t.last_name, t.phone
		 FROM messages AS m
		   JOIN users AS f ON m.from_username = f.username
		   JOIN users AS t ON m.to_username = t.username
		 WHERE m.id = $1
		 `

	msg := &models.Message{FromUser: &models.Profile{}, ToUser: &models.Profile{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID, &msg.Body, &msg.SentAt, &msg.ReadAt,
		&msg.FromUsername, &msg.FromUser.FirstName, &msg.FromUser.LastName, &msg.FromUser.Phone,
		&msg.ToUsername, &msg.ToUser.FirstName, &msg.ToUser.LastName, &msg.ToUser.Phone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	msg.FromUser.Username = msg.FromUsername
	msg.ToUser.Username = msg.ToUsername

	return msg, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`UPDATE messages SET read_at = now()
		 WHERE id = $1
		 RETURNING id, read_at
		 `

	msg := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&msg.ID, &msg.ReadAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) ListFrom(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        m.to_username, t.first_name, t.last_name, t.phone
		 FROM messages AS m
		   JOIN users AS t ON m.to_username = t.username
		 WHERE m.from_username = $1
		 ORDER BY m.id
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		msg := &models.Message{FromUsername: username, ToUser: &models.Profile{}}
		if err := rows.Scan(&msg.ID, &msg.Body, &msg.SentAt, &msg.ReadAt,
			&msg.ToUsername, &msg.ToUser.FirstName, &msg.ToUser.LastName, &msg.ToUser.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		msg.ToUser.Username = msg.ToUsername
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListTo(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        m.from_username, f.first_name, f.last_name, f.phone
		 FROM messages AS m
		   JOIN users AS f ON m.from_username = f.username
		 WHERE m.to_username = $1
		 ORDER BY m.id
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		msg := &models.Message{ToUsername: username, FromUser: &models.Profile{}}
		if err := rows.Scan(&msg.ID, &msg.Body, &msg.SentAt, &msg.ReadAt,
			&msg.FromUsername, &msg.FromUser.FirstName, &msg.FromUser.LastName, &msg.FromUser.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		msg.FromUser.Username = msg.FromUsername
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
