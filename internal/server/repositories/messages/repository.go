package messages

import (
	"context"

	"github.com/philipbrowne/messagely/internal/server/models"
)

// Repository is the message store. Access control happens above this layer;
// the repository answers plain data questions.
type Repository interface {
	// Create persists a new message and fills ID and SentAt. Sending to an
	// unregistered recipient yields common.ErrUnknownUsername.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)

	// GetByID returns a message with both participant profiles populated.
	// Absent messages yield common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Message, error)

	// MarkRead stamps read_at and returns the updated id/read_at pair.
	MarkRead(ctx context.Context, id int64) (*models.Message, error)

	// ListFrom returns messages sent by username, ToUser populated.
	ListFrom(ctx context.Context, username string) ([]*models.Message, error)

	// ListTo returns messages received by username, FromUser populated.
	ListTo(ctx context.Context, username string) ([]*models.Message, error)
}
