package repomanager

import (
	"context"
	"database/sql"

	"github.com/philipbrowne/messagely/internal/dbx"
	"github.com/philipbrowne/messagely/internal/server/repositories/messages"
	"github.com/philipbrowne/messagely/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run several repositories inside one transaction, and exposes
// a schema migration hook.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
