package transcription

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceProvider_Transcribe(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":"Model is currently loading","estimated_time":20}`)
			return
		}
		assert.Equal(t, "/models/openai/whisper-large-v3", r.URL.Path)
		assert.Equal(t, "Bearer hf_x", r.Header.Get("Authorization"))
		assert.Equal(t, "audio/webm", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "bytes", string(b))
		_, _ = io.WriteString(w, `{"text":" hi there "}`)
	}))
	defer ts.Close()

	p := NewHuggingFaceProvider(ts.Client(), ts.URL+"/models", "hf_x", "")
	p.backoff = fastBackoff

	res, err := p.Transcribe(context.Background(), Audio{Data: []byte("bytes"), ContentType: "audio/webm"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", res.Text)
	assert.Zero(t, res.DurationSeconds)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestHuggingFaceProvider_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer ts.Close()

	p := NewHuggingFaceProvider(ts.Client(), ts.URL, "t", "m")
	_, err := p.Transcribe(context.Background(), Audio{Data: []byte("x")})
	require.Error(t, err)
}
