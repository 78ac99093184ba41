package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestIsUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", "file:unique_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE u (email TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO u (email) VALUES ('a@b.c')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO u (email) VALUES ('a@b.c')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation_Other(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
