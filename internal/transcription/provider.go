// Package transcription turns audio bytes into text through a pluggable
// speech-to-text provider.
package transcription

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/common"
)

// Audio is one recording handed to a provider.
type Audio struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Result is the recognised text. DurationSeconds is set when the provider
// reports the audio length, 0 otherwise.
type Result struct {
	Text            string
	DurationSeconds float64
}

type Provider interface {
	Transcribe(ctx context.Context, audio Audio) (Result, error)
	Name() string
}

const (
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
	ProviderLocal       = "local"
)

// Options selects and configures a provider.
type Options struct {
	Provider string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	HFAPIToken string
	HFModel    string
	HFBaseURL  string

	LocalBinary string
	LocalModel  string

	HTTPTimeout time.Duration
}

// NewFromConfig builds the provider named by o.Provider.
func NewFromConfig(o Options) (Provider, error) {
	client := &http.Client{Timeout: o.HTTPTimeout}

	switch strings.ToLower(strings.TrimSpace(o.Provider)) {
	case ProviderOpenAI, "":
		if o.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: openai api key is not set", common.ErrorValidation)
		}
		return NewOpenAIProvider(client, o.OpenAIBaseURL, o.OpenAIAPIKey, o.OpenAIModel), nil
	case ProviderHuggingFace:
		if o.HFAPIToken == "" {
			return nil, fmt.Errorf("%w: huggingface api token is not set", common.ErrorValidation)
		}
		return NewHuggingFaceProvider(client, o.HFBaseURL, o.HFAPIToken, o.HFModel), nil
	case ProviderLocal:
		if o.LocalModel == "" {
			return nil, fmt.Errorf("%w: local whisper model is not set", common.ErrorValidation)
		}
		return NewLocalProvider(o.LocalBinary, o.LocalModel), nil
	default:
		return nil, fmt.Errorf("%w: unknown transcription provider %q", common.ErrorValidation, o.Provider)
	}
}

// Lazy builds its provider on first use and shares it between callers.
// A failed construction is remembered and returned on every call.
type Lazy struct {
	name string
	new  func() (Provider, error)

	once sync.Once
	p    Provider
	err  error
}

// ErrUnavailable marks a provider that could not be constructed, as opposed
// to one that failed a single request. It matches common.ErrorUpstream.
var ErrUnavailable = fmt.Errorf("%w: provider unavailable", common.ErrorUpstream)

func NewLazy(name string, newFn func() (Provider, error)) *Lazy {
	return &Lazy{name: name, new: newFn}
}

func (l *Lazy) get() (Provider, error) {
	l.once.Do(func() {
		l.p, l.err = l.new()
	})
	return l.p, l.err
}

func (l *Lazy) Name() string { return l.name }

func (l *Lazy) Transcribe(ctx context.Context, audio Audio) (Result, error) {
	p, err := l.get()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, l.name, err)
	}
	return p.Transcribe(ctx, audio)
}

// Status reports "configured" when the provider could be built and
// "missing" otherwise.
func (l *Lazy) Status() string {
	if _, err := l.get(); err != nil {
		return "missing"
	}
	return "configured"
}
