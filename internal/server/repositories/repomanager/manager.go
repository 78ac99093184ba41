// Package repomanager vends repositories for the configured database backend
// and applies its embedded migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/transcribed/internal/dbx"
	"github.com/dmitrijs2005/transcribed/internal/server/migrations"
	"github.com/dmitrijs2005/transcribed/internal/server/repositories/transcripts"
	"github.com/dmitrijs2005/transcribed/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// RepositoryManager binds repositories to a connection or transaction.
type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Transcripts(db dbx.DBTX) transcripts.Repository
}

var gooseUpContext = goose.UpContext

var migrationsFS = migrations.Migrations

// migrate applies the migrations under dir of the embedded filesystem.
// goose keeps its dialect and base FS in package state, so callers within
// one process must use a single backend at a time.
func migrate(ctx context.Context, db *sql.DB, gooseDialect, dir string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}
