package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/analysis"
	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/dmitrijs2005/transcribed/internal/media"
	"github.com/dmitrijs2005/transcribed/internal/server/blobstore"
	"github.com/dmitrijs2005/transcribed/internal/server/models"
	"github.com/dmitrijs2005/transcribed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/transcribed/internal/transcription"
	"github.com/rs/xid"
)

// DurationEstimator guesses the length of an audio upload in seconds.
type DurationEstimator interface {
	Duration(ctx context.Context, data []byte, filename string) (float64, media.Source)
}

// Upload is an audio file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Patch carries the optional fields of a transcript edit.
type Patch struct {
	Name *string
	Text *string
}

const timestampLayout = "20060102_150405"

type TranscriptService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	estimator   DurationEstimator
	provider    transcription.Provider
	timeout     time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewTranscriptService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store,
	estimator DurationEstimator, provider transcription.Provider, timeout time.Duration,
	logger logging.Logger) *TranscriptService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &TranscriptService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		estimator:   estimator,
		provider:    provider,
		timeout:     timeout,
		logger:      logger.With("module", "transcripts"),
		now:         time.Now,
	}
}

// recognized is the outcome of running an upload through the provider.
type recognized struct {
	filename string
	text     string
	duration float64
}

// Transcribe stores the upload, recognises its speech and persists a new
// transcript. An empty name defaults to "Recording <timestamp>".
func (s *TranscriptService) Transcribe(ctx context.Context, userID string, up Upload, name string) (*models.Transcript, error) {
	ts := s.now()
	rec, err := s.recognize(ctx, userID, up, ts)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Recording " + ts.Format(timestampLayout)
	}

	t := &models.Transcript{
		UserID:        userID,
		Name:          name,
		Text:          rec.text,
		AudioFilename: rec.filename,
		AudioDuration: rec.duration,
		Analysis:      analysis.Analyze(rec.text, rec.duration),
	}

	t, err = s.repomanager.Transcripts(s.db).Create(ctx, t)
	if err != nil {
		s.logger.Error(ctx, "create transcript failed", "error", err)
		s.removeBlob(ctx, userID, rec.filename)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "transcript created", "transcript_id", t.ID, "words", t.Analysis.WordCount)
	return t, nil
}

// recognize saves the blob, estimates its duration and transcribes it. On a
// provider timeout, or when the provider cannot be built at all, the blob is
// removed and the error returned. A failed request degrades to the error
// sentinel.
func (s *TranscriptService) recognize(ctx context.Context, userID string, up Upload, ts time.Time) (*recognized, error) {
	if strings.TrimSpace(up.Filename) == "" {
		return nil, fmt.Errorf("%w: no file selected", common.ErrorValidation)
	}

	filename := blobName(ts, up.Filename)
	if err := s.blobs.Save(ctx, userID, filename, up.Data); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "save blob failed", "error", err)
		return nil, common.ErrorInternal
	}

	duration, source := s.estimator.Duration(ctx, up.Data, filename)

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.provider.Transcribe(tctx, transcription.Audio{
		Data:        up.Data,
		Filename:    filename,
		ContentType: up.ContentType,
	})

	text := res.Text
	switch {
	case err != nil && tctx.Err() != nil:
		s.logger.Warn(ctx, "transcription timed out", "provider", s.provider.Name(), "error", err)
		s.removeBlob(ctx, userID, filename)
		return nil, fmt.Errorf("%w: transcription timed out: %w", common.ErrorUpstream, context.DeadlineExceeded)
	case errors.Is(err, transcription.ErrUnavailable):
		s.logger.Error(ctx, "transcription provider unavailable", "provider", s.provider.Name(), "error", err)
		s.removeBlob(ctx, userID, filename)
		return nil, err
	case err != nil:
		s.logger.Warn(ctx, "transcription failed", "provider", s.provider.Name(), "error", err)
		text = common.SentinelTranscriptionError
	case strings.TrimSpace(text) == "":
		text = common.SentinelNoSpeech
	}

	if err == nil && res.DurationSeconds > 0 {
		duration, source = res.DurationSeconds, media.SourceProvider
	}
	s.logger.Debug(ctx, "audio duration estimated", "seconds", duration, "source", string(source))

	return &recognized{filename: filename, text: strings.TrimSpace(text), duration: duration}, nil
}

// blobName builds recording_<timestamp>_<id><ext>; the id keeps uploads in
// the same second apart.
func blobName(ts time.Time, uploaded string) string {
	ext := strings.ToLower(filepath.Ext(uploaded))
	if !strings.HasPrefix(blobstore.ContentTypeFor(ext), "audio/") {
		ext = ".webm"
	}
	return fmt.Sprintf("recording_%s_%s%s", ts.Format(timestampLayout), xid.New().String(), ext)
}

func (s *TranscriptService) List(ctx context.Context, userID string) ([]*models.Transcript, error) {
	list, err := s.repomanager.Transcripts(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "list transcripts failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Get returns the transcript when userID owns it.
func (s *TranscriptService) Get(ctx context.Context, userID, id string) (*models.Transcript, error) {
	t, err := s.repomanager.Transcripts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "get transcript failed", "error", err)
		return nil, common.ErrorInternal
	}
	if t.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return t, nil
}

// Update renames and/or edits the text of a transcript. A text change
// recomputes the analysis; failing to obtain a duration keeps the previous
// statistics.
func (s *TranscriptService) Update(ctx context.Context, userID, id string, p Patch) (*models.Transcript, error) {
	if p.Name == nil && p.Text == nil {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrorValidation)
	}

	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Text != nil {
		t.Text = *p.Text
		if d, ok := s.durationFor(ctx, t); ok {
			t.AudioDuration = d
			t.Analysis = analysis.Analyze(t.Text, d)
		}
	}

	if err := s.repomanager.Transcripts(s.db).Update(ctx, t); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "update transcript failed", "error", err)
		return nil, common.ErrorInternal
	}
	return t, nil
}

// durationFor returns the stored duration or, when none is stored, probes
// the blob. A missing blob yields media.FallbackSeconds.
func (s *TranscriptService) durationFor(ctx context.Context, t *models.Transcript) (float64, bool) {
	if t.AudioDuration > 0 || !t.HasAudio() {
		return t.AudioDuration, true
	}

	rc, _, err := s.blobs.Open(ctx, t.UserID, t.AudioFilename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return media.FallbackSeconds, true
		}
		s.logger.Warn(ctx, "open blob for analysis failed", "transcript_id", t.ID, "error", err)
		return 0, false
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		s.logger.Warn(ctx, "read blob for analysis failed", "transcript_id", t.ID, "error", err)
		return 0, false
	}

	d, _ := s.estimator.Duration(ctx, data, t.AudioFilename)
	return d, true
}

// ReplaceAudio transcribes a new recording into an existing transcript and
// deletes the blob it replaces.
func (s *TranscriptService) ReplaceAudio(ctx context.Context, userID, id string, up Upload) (*models.Transcript, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rec, err := s.recognize(ctx, userID, up, s.now())
	if err != nil {
		return nil, err
	}

	old := t.AudioFilename
	t.Text = rec.text
	t.AudioFilename = rec.filename
	t.AudioDuration = rec.duration
	t.Analysis = analysis.Analyze(rec.text, rec.duration)

	if err := s.repomanager.Transcripts(s.db).Update(ctx, t); err != nil {
		s.logger.Error(ctx, "update transcript failed", "error", err)
		s.removeBlob(ctx, userID, rec.filename)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if old != "" && old != rec.filename {
		s.removeBlob(ctx, userID, old)
	}
	return t, nil
}

// Delete removes the transcript and, best effort, its blob.
func (s *TranscriptService) Delete(ctx context.Context, userID, id string) error {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if t.HasAudio() {
		s.removeBlob(ctx, userID, t.AudioFilename)
	}

	if err := s.repomanager.Transcripts(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "delete transcript failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

func (s *TranscriptService) removeBlob(ctx context.Context, userID, filename string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), userID, filename); err != nil {
		s.logger.Warn(ctx, "delete blob failed", "user_id", userID, "filename", filename, "error", err)
	}
}
