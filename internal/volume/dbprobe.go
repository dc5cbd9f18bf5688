package volume

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"photoframe-entrypoint/internal/logging"
)

// countTables opens the database read-only and counts user tables. The probe
// is purely diagnostic: any failure is logged at debug level and reported
// as -1, and the file is never created or modified.
func countTables(ctx context.Context, dbFile string) int {
	log := logging.Get(ctx)

	db, err := sql.Open("sqlite", "file:"+dbFile+"?mode=ro")
	if err != nil {
		log.Debug().Err(err).Str("db", dbFile).Msg("database probe failed to open")
		return -1
	}
	defer func() { _ = db.Close() }()

	var tables int
	err = db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables)
	if err != nil {
		log.Debug().Err(err).Str("db", dbFile).Msg("database probe query failed")
		return -1
	}
	return tables
}
