package auth

import (
	"context"

	"github.com/philipbrowne/messagely/internal/common"
	"github.com/philipbrowne/messagely/internal/server/models"
)

// Guards are pure predicate checks over already-available data; none of
// them perform I/O. RequireSelf and RequireParticipant take the identity as
// an explicit argument so they cannot run before authentication produced one.

// RequireAuthenticated returns the identity attached to ctx, or
// common.ErrUnauthenticated when the request carries no verified subject.
func RequireAuthenticated(ctx context.Context) (*Identity, error) {
	id := IdentityFromContext(ctx)
	if id == nil {
		return nil, common.ErrUnauthenticated
	}
	return id, nil
}

// RequireSelf checks that id owns the resource addressed by username.
func RequireSelf(id *Identity, username string) error {
	if id == nil {
		return common.ErrUnauthenticated
	}
	if id.Username != username {
		return common.ErrForbidden
	}
	return nil
}

// RequireParticipant checks that id is the sender or the recipient of msg.
// It is a post-load check: the message's participants are not known from
// the URL alone.
func RequireParticipant(id *Identity, msg *models.Message) error {
	if id == nil {
		return common.ErrUnauthenticated
	}
	if id.Username != msg.FromUsername && id.Username != msg.ToUsername {
		return common.ErrForbidden
	}
	return nil
}

// RequireRecipient checks that id is the recipient of msg. Used by the
// mark-read flow, which is narrower than participant access.
func RequireRecipient(id *Identity, msg *models.Message) error {
	if id == nil {
		return common.ErrUnauthenticated
	}
	if id.Username != msg.ToUsername {
		return common.ErrForbidden
	}
	return nil
}
