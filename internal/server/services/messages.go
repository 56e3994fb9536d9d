package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/philipbrowne/messagely/internal/common"
	"github.com/philipbrowne/messagely/internal/dbx"
	"github.com/philipbrowne/messagely/internal/server/auth"
	"github.com/philipbrowne/messagely/internal/server/models"
	"github.com/philipbrowne/messagely/internal/server/repositories/repomanager"
)

// MessageService handles sending, reading, and listing direct messages.
// Participant checks happen here, after the message is loaded, because the
// participants are not known from the URL alone.
type MessageService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repos: m}
}

// Get returns the message with both participant profiles, provided the
// caller is its sender or recipient.
func (s *MessageService) Get(ctx context.Context, id int64, who *auth.Identity) (*models.Message, error) {
	msg, err := s.repos.Messages(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireParticipant(who, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// Send creates a message from the authenticated caller. The sender is always
// the verified identity, never a caller-supplied field.
func (s *MessageService) Send(ctx context.Context, who *auth.Identity, toUsername, body string) (*models.Message, error) {
	if who == nil {
		return nil, common.ErrUnauthenticated
	}
	if toUsername == "" || body == "" {
		return nil, common.ErrMissingFields
	}

	msg := &models.Message{
		FromUsername: who.Username,
		ToUsername:   toUsername,
		Body:         body,
	}

	created, err := s.repos.Messages(s.db).Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// MarkRead stamps the message read, provided the caller is its recipient.
// The load, the recipient check, and the update run in one transaction so a
// concurrent delete cannot slip between them.
func (s *MessageService) MarkRead(ctx context.Context, id int64, who *auth.Identity) (*models.Message, error) {
	var updated *models.Message

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Messages(tx)

		msg, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := auth.RequireRecipient(who, msg); err != nil {
			return err
		}

		updated, err = repo.MarkRead(ctx, id)
		if err != nil {
			return fmt.Errorf("marking message read: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// From lists messages sent by username. The transport layer guards this
// with RequireSelf before calling.
func (s *MessageService) From(ctx context.Context, username string) ([]*models.Message, error) {
	msgs, err := s.repos.Messages(s.db).ListFrom(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("listing sent messages: %w", err)
	}
	return msgs, nil
}

// To lists messages received by username. Guarded like From.
func (s *MessageService) To(ctx context.Context, username string) ([]*models.Message, error) {
	msgs, err := s.repos.Messages(s.db).ListTo(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("listing received messages: %w", err)
	}
	return msgs, nil
}
