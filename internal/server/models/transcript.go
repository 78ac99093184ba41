package models

import (
	"time"

	"github.com/dmitrijs2005/transcribed/internal/analysis"
)

// Transcript pairs recognised text with its optional audio blob and the
// statistics derived from both.
type Transcript struct {
	ID     string
	UserID string
	Name   string
	Text   string

	// AudioFilename addresses the blob under the owner's namespace; empty
	// when the transcript has no audio.
	AudioFilename string
	// AudioDuration is the duration estimate in seconds used for the last
	// analysis; 0 when unknown.
	AudioDuration float64

	Analysis analysis.Result

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAudio reports whether a blob is attached.
func (t *Transcript) HasAudio() bool {
	return t.AudioFilename != ""
}
