package storage

import "context"

// Open selects the backend once at boot: PostgreSQL when a connection string
// is configured, otherwise the embedded SQLite file at sqlitePath. The
// decision is never re-evaluated during the process lifetime.
func Open(ctx context.Context, databaseURL, sqlitePath string) (DB, error) {
	if databaseURL != "" {
		return OpenPostgres(ctx, databaseURL)
	}
	return OpenSQLite(ctx, sqlitePath)
}
