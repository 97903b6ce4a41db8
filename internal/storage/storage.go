// Package storage defines the persistence contract for weekgrid documents
// and picks a backend for a data source name.
package storage

import (
	"strings"

	"github.com/julianstephens/weekgrid/internal/storage/postgres"
	"github.com/julianstephens/weekgrid/internal/storage/sqlite"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendJSON     Backend = "json"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Detect chooses the backend for dsn: PostgreSQL URLs, then ".json" files,
// and sqlite for anything else.
func Detect(dsn string) Backend {
	switch {
	case postgres.IsConnString(dsn):
		return BackendPostgres
	case strings.HasSuffix(strings.ToLower(dsn), ".json"):
		return BackendJSON
	default:
		return BackendSQLite
	}
}

// New returns an unopened provider for dsn. Callers run Init or Load next.
func New(dsn string) Provider {
	switch Detect(dsn) {
	case BackendPostgres:
		return postgres.New(dsn)
	case BackendJSON:
		return NewJSONStore(dsn)
	default:
		return sqlite.NewStore(dsn)
	}
}

var (
	_ Provider = (*JSONStore)(nil)
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

var (
	_ Versioned = (*sqlite.Store)(nil)
	_ Versioned = (*postgres.Store)(nil)
)
