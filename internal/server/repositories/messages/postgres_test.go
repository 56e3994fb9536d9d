package messages

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/philipbrowne/messagely/internal/common"
	"github.com/philipbrowne/messagely/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQuery = `(?s)^\s*INSERT\s+INTO\s+messages\s*\(from_username,\s*to_username,\s*body,\s*sent_at\)`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "sent_at"}).AddRow(int64(7), now)
	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "bob", "hi there").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Message{FromUsername: "alice", ToUsername: "bob", Body: "hi there"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 || !got.SentAt.Equal(now) {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestCreate_UnknownRecipient(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "ghost", "hi").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), &models.Message{FromUsername: "alice", ToUsername: "ghost", Body: "hi"})
	if !errors.Is(err, common.ErrUnknownUsername) {
		t.Fatalf("want common.ErrUnknownUsername, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "bob", "hi").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Message{FromUsername: "alice", ToUsername: "bob", Body: "hi"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

const getByIDQuery = `(?s)^\s*SELECT\s+m\.id,\s*m\.body,\s*m\.sent_at,\s*m\.read_at,.*WHERE\s+m\.id\s*=\s*\$1`

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "body", "sent_at", "read_at",
		"from_username", "f_first", "f_last", "f_phone",
		"to_username", "t_first", "t_last", "t_phone",
	}).AddRow(int64(7), "hi there", now, nil,
		"alice", "Alice", "Smith", "+15551111111",
		"bob", "Bob", "Jones", "+15552222222")
	mock.ExpectQuery(getByIDQuery).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 7 || got.FromUser.Username != "alice" || got.ToUser.Username != "bob" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.ReadAt != nil {
		t.Fatalf("expected unread message, got ReadAt=%v", got.ReadAt)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getByIDQuery).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

const markReadQuery = `(?s)^\s*UPDATE\s+messages\s+SET\s+read_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*read_at`

func TestMarkRead_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "read_at"}).AddRow(int64(7), now)
	mock.ExpectQuery(markReadQuery).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.MarkRead(context.Background(), 7)
	if err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if got.ID != 7 || got.ReadAt == nil || !got.ReadAt.Equal(now) {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestMarkRead_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(markReadQuery).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkRead(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestListFrom_PopulatesRecipientProfiles(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+m\.id,.*WHERE\s+m\.from_username\s*=\s*\$1\s+ORDER\s+BY\s+m\.id`

	now := time.Now()
	read := now.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"id", "body", "sent_at", "read_at", "to_username", "first_name", "last_name", "phone"}).
		AddRow(int64(1), "hi bob", now, nil, "bob", "Bob", "Jones", "+15552222222").
		AddRow(int64(2), "hi carol", now, read, "carol", "Carol", "Brown", "+15553333333")
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.ListFrom(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListFrom error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected count: %d", len(got))
	}
	if got[0].ToUser.Username != "bob" || got[0].ReadAt != nil {
		t.Fatalf("unexpected first message: %+v", got[0])
	}
	if got[1].ToUser.Username != "carol" || got[1].ReadAt == nil {
		t.Fatalf("unexpected second message: %+v", got[1])
	}
}

func TestListTo_PopulatesSenderProfiles(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+m\.id,.*WHERE\s+m\.to_username\s*=\s*\$1\s+ORDER\s+BY\s+m\.id`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "body", "sent_at", "read_at", "from_username", "first_name", "last_name", "phone"}).
		AddRow(int64(3), "hello", now, nil, "alice", "Alice", "Smith", "+15551111111")
	mock.ExpectQuery(q).
		WithArgs("bob").
		WillReturnRows(rows)

	got, err := repo.ListTo(context.Background(), "bob")
	if err != nil {
		t.Fatalf("ListTo error: %v", err)
	}
	if len(got) != 1 || got[0].FromUser.Username != "alice" || got[0].ToUsername != "bob" {
		t.Fatalf("unexpected messages: %+v", got)
	}
}
