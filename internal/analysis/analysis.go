// Package analysis derives reading statistics from a transcript and an
// estimated audio duration.
//
// Analyze is pure and total: any text and any duration, including zero,
// negative, NaN or infinite estimates, produce a finite Result.
package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
)

// Result holds the four derived statistics stored with every transcript.
type Result struct {
	WordCount           int     `json:"word_count"`
	SentenceCount       int     `json:"sentence_count"`
	SpeechRate          float64 `json:"speech_rate"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
}

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// IsSentinel reports whether text is one of the placeholder strings stored
// when transcription produced no usable result.
func IsSentinel(text string) bool {
	switch strings.TrimSpace(text) {
	case common.SentinelNoSpeech, common.SentinelTranscriptionError:
		return true
	}
	return false
}

// Analyze computes word and sentence counts, words per minute and average
// words per sentence. Rates are rounded to two decimals.
func Analyze(text string, durationSeconds float64) Result {
	if IsSentinel(text) {
		return Result{}
	}

	words := len(strings.Fields(text))
	if words == 0 {
		return Result{}
	}

	sentences := 0
	for _, segment := range sentenceTerminators.Split(text, -1) {
		if strings.TrimSpace(segment) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	var rate float64
	if validDuration(durationSeconds) {
		rate = float64(words) / durationSeconds * 60
	}

	return Result{
		WordCount:           words,
		SentenceCount:       sentences,
		SpeechRate:          round2(rate),
		AvgWordsPerSentence: round2(float64(words) / float64(sentences)),
	}
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0
	}
	return r
}
