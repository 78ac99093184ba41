package repomanager

import (
	"context"
	"database/sql"
)

// Open connects to Postgres when dsn is set and to the SQLite file at
// sqlitePath otherwise, then applies migrations.
func Open(ctx context.Context, dsn, sqlitePath string) (*sql.DB, RepositoryManager, error) {
	var (
		db  *sql.DB
		m   RepositoryManager
		err error
	)

	if dsn != "" {
		db, err = OpenPostgres(ctx, dsn)
		m = NewPostgresRepositoryManager()
	} else {
		db, err = OpenSQLite(ctx, sqlitePath)
		m = NewSQLiteRepositoryManager()
	}
	if err != nil {
		return nil, nil, err
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, m, nil
}
