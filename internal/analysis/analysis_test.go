package analysis

import (
	"math"
	"testing"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		duration float64
		want     Result
	}{
		{
			name:     "two sentences",
			text:     "Hello world. How are you?",
			duration: 10,
			want:     Result{WordCount: 5, SentenceCount: 2, SpeechRate: 30, AvgWordsPerSentence: 2.5},
		},
		{
			name:     "empty text",
			text:     "",
			duration: 10,
			want:     Result{},
		},
		{
			name:     "whitespace only",
			text:     " \n\t ",
			duration: 10,
			want:     Result{},
		},
		{
			name:     "no speech sentinel",
			text:     common.SentinelNoSpeech,
			duration: 10,
			want:     Result{},
		},
		{
			name:     "error sentinel with padding",
			text:     "  " + common.SentinelTranscriptionError + "\n",
			duration: 10,
			want:     Result{},
		},
		{
			name:     "no terminal punctuation",
			text:     "just some words here",
			duration: 60,
			want:     Result{WordCount: 4, SentenceCount: 1, SpeechRate: 4, AvgWordsPerSentence: 4},
		},
		{
			name:     "punctuation runs collapse",
			text:     "Wait... what?! Really!!!",
			duration: 3,
			want:     Result{WordCount: 3, SentenceCount: 3, SpeechRate: 60, AvgWordsPerSentence: 1},
		},
		{
			name:     "only punctuation is floored to one sentence",
			text:     "...",
			duration: 1,
			want:     Result{WordCount: 1, SentenceCount: 1, SpeechRate: 60, AvgWordsPerSentence: 1},
		},
		{
			name:     "rounding to two decimals",
			text:     "one two. three four five. six seven",
			duration: 7,
			want:     Result{WordCount: 7, SentenceCount: 3, SpeechRate: 60, AvgWordsPerSentence: 2.33},
		},
		{
			name:     "zero duration",
			text:     "Hello world.",
			duration: 0,
			want:     Result{WordCount: 2, SentenceCount: 1, SpeechRate: 0, AvgWordsPerSentence: 2},
		},
		{
			name:     "negative duration",
			text:     "Hello world.",
			duration: -5,
			want:     Result{WordCount: 2, SentenceCount: 1, SpeechRate: 0, AvgWordsPerSentence: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text, tt.duration))
		})
	}
}

func TestAnalyze_NonFiniteDurations(t *testing.T) {
	for _, d := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.SmallestNonzeroFloat64} {
		got := Analyze("a b c. d e", d)
		assert.False(t, math.IsNaN(got.SpeechRate), "duration %v", d)
		assert.False(t, math.IsInf(got.SpeechRate, 0), "duration %v", d)
		assert.Equal(t, 5, got.WordCount)
	}
}

func TestAnalyze_NonPositiveDurationAlwaysZeroRate(t *testing.T) {
	texts := []string{"", "one", "One. Two! Three?", common.SentinelNoSpeech, "a b c d e f g"}
	for _, text := range texts {
		for _, d := range []float64{0, -1, -1000.5} {
			assert.Zero(t, Analyze(text, d).SpeechRate, "text %q duration %v", text, d)
		}
	}
}

func TestAnalyze_NoPunctuationMeansOneSentence(t *testing.T) {
	for _, text := range []string{"a", "a b", "lorem ipsum dolor sit amet"} {
		got := Analyze(text, 10)
		assert.Equal(t, 1, got.SentenceCount)
		assert.Equal(t, float64(got.WordCount), got.AvgWordsPerSentence)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	text := "The quick brown fox. Jumps over the lazy dog!"
	assert.Equal(t, Analyze(text, 12.5), Analyze(text, 12.5))
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(common.SentinelNoSpeech))
	assert.True(t, IsSentinel(" "+common.SentinelTranscriptionError))
	assert.False(t, IsSentinel("[No speech detected] but then speech"))
	assert.False(t, IsSentinel(""))
}
