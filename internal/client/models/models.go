// Package models holds the API payloads as the CLI client sees them.
package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Transcript struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Text                string    `json:"text"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
	WordCount           int       `json:"word_count"`
	SentenceCount       int       `json:"sentence_count"`
	SpeechRate          float64   `json:"speech_rate"`
	AvgWordsPerSentence float64   `json:"avg_words_per_sentence"`
	// AudioURL is a server-relative playback path carrying the caller's
	// token; empty when the transcript has no audio.
	AudioURL string `json:"audioUrl,omitempty"`
}

func (t *Transcript) HasAudio() bool {
	return t.AudioURL != ""
}
