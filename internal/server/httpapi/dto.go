package httpapi

import (
	"net/url"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUser(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.UserName, Email: u.Email, CreatedAt: u.CreatedAt}
}

type transcriptResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Text                string    `json:"text"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
	WordCount           int       `json:"word_count"`
	SentenceCount       int       `json:"sentence_count"`
	SpeechRate          float64   `json:"speech_rate"`
	AvgWordsPerSentence float64   `json:"avg_words_per_sentence"`
	AudioURL            string    `json:"audioUrl,omitempty"`
}

// toTranscript renders t for the caller holding token. The audio URL carries
// the token as a query parameter so <audio> elements can fetch it.
func toTranscript(t *models.Transcript, token string) transcriptResponse {
	r := transcriptResponse{
		ID:                  t.ID,
		Name:                t.Name,
		Text:                t.Text,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		WordCount:           t.Analysis.WordCount,
		SentenceCount:       t.Analysis.SentenceCount,
		SpeechRate:          t.Analysis.SpeechRate,
		AvgWordsPerSentence: t.Analysis.AvgWordsPerSentence,
	}
	if t.HasAudio() {
		r.AudioURL = AudioURL(t.UserID, t.AudioFilename, token)
	}
	return r
}

// AudioURL is the query-token playback path for a blob.
func AudioURL(ownerID, filename, token string) string {
	u := "/audio/" + url.PathEscape(ownerID) + "/" + url.PathEscape(filename)
	if token != "" {
		u += "?" + url.Values{"token": {token}}.Encode()
	}
	return u
}

type patchRequest struct {
	Name *string `json:"name"`
	Text *string `json:"text"`
}
