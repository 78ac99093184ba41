package transcription

import (
	"bytes"
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
	defaultHFBaseURL = "https://api-inference.huggingface.co/models"
	defaultHFModel   = "openai/whisper-large-v3"
)

// HuggingFaceProvider posts raw audio to the Inference API's
// automatic-speech-recognition task. A 503 while the model loads is retried.
type HuggingFaceProvider struct {
	client  *http.Client
	baseURL string
	token   string
	model   string
	backoff func() retry.Backoff
}

func NewHuggingFaceProvider(client *http.Client, baseURL, token, model string) *HuggingFaceProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	if model == "" {
		model = defaultHFModel
	}
	return &HuggingFaceProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		model:   model,
		backoff: defaultBackoff,
	}
}

func (p *HuggingFaceProvider) Name() string { return ProviderHuggingFace }

func (p *HuggingFaceProvider) Transcribe(ctx context.Context, audio Audio) (Result, error) {
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var out struct {
		Text string `json:"text"`
	}
	err := doWithRetry(ctx, p.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/"+p.model, bytes.NewReader(audio.Data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+p.token)

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &StatusError{Provider: p.Name(), StatusCode: resp.StatusCode, Body: netx.ErrorBody(resp)}
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("%w: huggingface: decode response: %v", common.ErrorUpstream, err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Text: strings.TrimSpace(out.Text)}, nil
}
