package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/netx"
	"github.com/sethvargo/go-retry"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "whisper-1"
)

// OpenAIProvider calls the audio transcriptions endpoint of the OpenAI API
// or any server speaking the same protocol (whisper.cpp server, LocalAI).
type OpenAIProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	backoff func() retry.Backoff
}

func NewOpenAIProvider(client *http.Client, baseURL, apiKey, model string) *OpenAIProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		backoff: defaultBackoff,
	}
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

type verboseJSON struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Language string  `json:"language"`
}

func (p *OpenAIProvider) Transcribe(ctx context.Context, audio Audio) (Result, error) {
	filename := audio.Filename
	if filename == "" {
		filename = "audio.webm"
	}

	var out verboseJSON
	err := doWithRetry(ctx, p.backoff(), func(ctx context.Context) error {
		body, contentType, err := netx.Multipart("file", filename, audio.Data, map[string]string{
			"model":           p.model,
			"response_format": "verbose_json",
		})
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/audio/transcriptions", body)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		if p.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+p.apiKey)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &StatusError{Provider: p.Name(), StatusCode: resp.StatusCode, Body: netx.ErrorBody(resp)}
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("%w: openai: decode response: %v", common.ErrorUpstream, err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Text: strings.TrimSpace(out.Text), DurationSeconds: out.Duration}, nil
}
