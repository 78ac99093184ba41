// Package transcripts persists transcript records and their analysis columns.
package transcripts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/dbx"
	"github.com/dmitrijs2005/transcribed/internal/server/models"
	"github.com/google/uuid"
)

const selectColumns = `id, user_id, name, text, audio_filename, audio_duration,
		 word_count, sentence_count, speech_rate, avg_words_per_sentence,
		 created_at, updated_at`

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.DialectPostgres}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.DialectSQLite}
}

func (r *SQLRepository) Create(ctx context.Context, t *models.Transcript) (*models.Transcript, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	query :=
		`INSERT INTO transcripts (id, user_id, name, text, audio_filename, audio_duration,
		 word_count, sentence_count, speech_rate, avg_words_per_sentence, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 `

	_, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, query),
		t.ID, t.UserID, t.Name, t.Text, nullString(t.AudioFilename), t.AudioDuration,
		t.Analysis.WordCount, t.Analysis.SentenceCount, t.Analysis.SpeechRate, t.Analysis.AvgWordsPerSentence,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Transcript, error) {
	query := `SELECT ` + selectColumns + `
		 FROM transcripts WHERE id = $1`

	t, err := scan(r.db.QueryRowContext(ctx, dbx.Rebind(r.dialect, query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]*models.Transcript, error) {
	query := `SELECT ` + selectColumns + `
		 FROM transcripts WHERE user_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, dbx.Rebind(r.dialect, query), userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Transcript{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// Update writes every mutable column of t and bumps UpdatedAt.
func (r *SQLRepository) Update(ctx context.Context, t *models.Transcript) error {
	t.UpdatedAt = time.Now().UTC()

	query :=
		`UPDATE transcripts SET name = $1, text = $2, audio_filename = $3, audio_duration = $4,
		 word_count = $5, sentence_count = $6, speech_rate = $7, avg_words_per_sentence = $8,
		 updated_at = $9
		 WHERE id = $10`

	res, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, query),
		t.Name, t.Text, nullString(t.AudioFilename), t.AudioDuration,
		t.Analysis.WordCount, t.Analysis.SentenceCount, t.Analysis.SpeechRate, t.Analysis.AvgWordsPerSentence,
		t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, `DELETE FROM transcripts WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, `DELETE FROM transcripts WHERE user_id = $1`), userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Transcript, error) {
	var (
		t     models.Transcript
		audio sql.NullString
	)
	err := s.Scan(&t.ID, &t.UserID, &t.Name, &t.Text, &audio, &t.AudioDuration,
		&t.Analysis.WordCount, &t.Analysis.SentenceCount, &t.Analysis.SpeechRate, &t.Analysis.AvgWordsPerSentence,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.AudioFilename = audio.String
	return &t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
