package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func transcriptRows(list []*models.Transcript) [][]string {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		audio := "no"
		if t.HasAudio() {
			audio = "yes"
		}
		rows = append(rows, []string{
			t.ID,
			t.Name,
			strconv.Itoa(t.WordCount),
			strconv.FormatFloat(t.SpeechRate, 'f', 1, 64),
			audio,
			formatTime(t.CreatedAt),
		})
	}
	return rows
}

func printTranscript(w io.Writer, t *models.Transcript) {
	fmt.Fprintf(w, "ID:        %s\n", t.ID)
	fmt.Fprintf(w, "Name:      %s\n", t.Name)
	fmt.Fprintf(w, "Created:   %s\n", formatTime(t.CreatedAt))
	fmt.Fprintf(w, "Updated:   %s\n", formatTime(t.UpdatedAt))
	fmt.Fprintf(w, "Words:     %d\n", t.WordCount)
	fmt.Fprintf(w, "Sentences: %d\n", t.SentenceCount)
	fmt.Fprintf(w, "Rate:      %.1f wpm\n", t.SpeechRate)
	fmt.Fprintf(w, "Avg/sent:  %.1f words\n", t.AvgWordsPerSentence)
	if t.HasAudio() {
		fmt.Fprintln(w, "Audio:     yes")
	} else {
		fmt.Fprintln(w, "Audio:     no")
	}
	fmt.Fprintf(w, "\n%s\n", t.Text)
}
