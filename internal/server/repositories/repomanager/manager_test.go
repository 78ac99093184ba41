package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/transcribed/internal/dbx"
	"github.com/dmitrijs2005/transcribed/internal/server/migrations"
	"github.com/dmitrijs2005/transcribed/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestManagers_ImplementInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	for _, m := range []RepositoryManager{NewPostgresRepositoryManager(), NewSQLiteRepositoryManager()} {
		if u := m.Users(db); u == nil {
			t.Fatal("Users() nil")
		}
		if tr := m.Transcripts(db); tr == nil {
			t.Fatal("Transcripts() nil")
		}
	}
	assert.Equal(t, dbx.DialectPostgres, NewPostgresRepositoryManager().Dialect())
	assert.Equal(t, dbx.DialectSQLite, NewSQLiteRepositoryManager().Dialect())
}

func TestRunMigrations_UsesDialectDirectory(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var gotDir string
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, migrations.PostgresDir, gotDir)

	require.NoError(t, NewSQLiteRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, migrations.SQLiteDir, gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	if err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpen_SQLiteMemoryRunsRealMigrations(t *testing.T) {
	ctx := context.Background()
	db, m, err := Open(ctx, "", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	u, err := m.Users(db).Create(ctx, &models.User{UserName: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	tr, err := m.Transcripts(db).Create(ctx, &models.Transcript{UserID: u.ID, Name: "n", Text: "t"})
	require.NoError(t, err)

	got, err := m.Transcripts(db).GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "n", got.Name)
	assert.False(t, got.HasAudio())

	// foreign keys are enforced
	_, err = m.Transcripts(db).Create(ctx, &models.Transcript{UserID: "ghost", Name: "n", Text: "t"})
	assert.Error(t, err)
}
