package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/philipbrowne/messagely/internal/common"
	"github.com/philipbrowne/messagely/internal/dbx"
	"github.com/philipbrowne/messagely/internal/server/models"
	"github.com/philipbrowne/messagely/internal/server/repositories/messages"
	"github.com/philipbrowne/messagely/internal/server/repositories/users"
)

// In-memory repositories backing the service tests. They implement the same
// contracts as the PostgreSQL repositories, including the sentinel errors.

type fakeUserRepo struct {
	users      map[string]*models.User
	lastLogins map[string]int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*models.User),
		lastLogins: make(map[string]int),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.Username]; ok {
		return common.ErrAlreadyExists
	}
	now := time.Now()
	user.JoinAt = now
	user.LastLoginAt = now
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, username string) error {
	if _, ok := r.users[username]; !ok {
		return common.ErrNotFound
	}
	r.lastLogins[username]++
	r.users[username].LastLoginAt = time.Now()
	return nil
}

func (r *fakeUserRepo) All(_ context.Context) ([]*models.User, error) {
	result := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, u)
	}
	return result, nil
}

type fakeMessageRepo struct {
	userRepo *fakeUserRepo
	messages map[int64]*models.Message
	nextID   int64
}

func newFakeMessageRepo(userRepo *fakeUserRepo) *fakeMessageRepo {
	return &fakeMessageRepo{
		userRepo: userRepo,
		messages: make(map[int64]*models.Message),
		nextID:   1,
	}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *models.Message) (*models.Message, error) {
	if _, ok := r.userRepo.users[msg.ToUsername]; !ok {
		return nil, common.ErrUnknownUsername
	}
	msg.ID = r.nextID
	r.nextID++
	msg.SentAt = time.Now()
	r.messages[msg.ID] = msg
	return msg, nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id int64) (*models.Message, error) {
	msg, ok := r.messages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *msg
	if from, ok := r.userRepo.users[msg.FromUsername]; ok {
		p := from.Profile()
		copied.FromUser = &p
	}
	if to, ok := r.userRepo.users[msg.ToUsername]; ok {
		p := to.Profile()
		copied.ToUser = &p
	}
	return &copied, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id int64) (*models.Message, error) {
	msg, ok := r.messages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	now := time.Now()
	msg.ReadAt = &now
	return &models.Message{ID: msg.ID, ReadAt: msg.ReadAt}, nil
}

func (r *fakeMessageRepo) ListFrom(_ context.Context, username string) ([]*models.Message, error) {
	var result []*models.Message
	for _, m := range r.messages {
		if m.FromUsername == username {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) ListTo(_ context.Context, username string) ([]*models.Message, error) {
	var result []*models.Message
	for _, m := range r.messages {
		if m.ToUsername == username {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeManager struct {
	userRepo    *fakeUserRepo
	messageRepo *fakeMessageRepo
}

func newFakeManager() *fakeManager {
	userRepo := newFakeUserRepo()
	return &fakeManager{
		userRepo:    userRepo,
		messageRepo: newFakeMessageRepo(userRepo),
	}
}

func (m *fakeManager) Users(dbx.DBTX) users.Repository       { return m.userRepo }
func (m *fakeManager) Messages(dbx.DBTX) messages.Repository { return m.messageRepo }
func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
