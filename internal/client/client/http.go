package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/client/models"
	"github.com/dmitrijs2005/transcribed/internal/netx"
)

// HTTPClient implements Client over the JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// do sends r and decodes a successful JSON response into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return err
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	r := request{method: method, path: path, token: token}
	if in != nil {
		body, err := jsonBody(in)
		if err != nil {
			return err
		}
		r.body, r.contentType = body, "application/json"
	}
	return c.do(ctx, r, out)
}

func (c *HTTPClient) Signup(ctx context.Context, username, email, password string) error {
	in := map[string]string{"username": username, "email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/api/signup", "", in, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", "", in, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout", token, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/me", token, nil, nil)
}

func (c *HTTPClient) List(ctx context.Context, token string) ([]*models.Transcript, error) {
	var list []*models.Transcript
	if err := c.doJSON(ctx, http.MethodGet, "/api/transcripts", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func transcriptPath(id string) string {
	return "/api/transcripts/" + url.PathEscape(id)
}

func (c *HTTPClient) Get(ctx context.Context, token, id string) (*models.Transcript, error) {
	var t models.Transcript
	if err := c.doJSON(ctx, http.MethodGet, transcriptPath(id), token, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) upload(ctx context.Context, method, path, token, filename string, data []byte, fields map[string]string) (*models.Transcript, error) {
	body, ct, err := netx.Multipart("audio", filename, data, fields)
	if err != nil {
		return nil, err
	}

	var t models.Transcript
	r := request{method: method, path: path, token: token, body: body, contentType: ct}
	if err := c.do(ctx, r, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) Upload(ctx context.Context, token, filename string, data []byte, name string) (*models.Transcript, error) {
	var fields map[string]string
	if name != "" {
		fields = map[string]string{"name": name}
	}
	return c.upload(ctx, http.MethodPost, "/api/transcribe", token, filename, data, fields)
}

func (c *HTTPClient) Update(ctx context.Context, token, id string, name, text *string) (*models.Transcript, error) {
	in := struct {
		Name *string `json:"name,omitempty"`
		Text *string `json:"text,omitempty"`
	}{Name: name, Text: text}

	var t models.Transcript
	if err := c.doJSON(ctx, http.MethodPut, transcriptPath(id), token, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) ReplaceAudio(ctx context.Context, token, id, filename string, data []byte) (*models.Transcript, error) {
	return c.upload(ctx, http.MethodPut, transcriptPath(id)+"/audio", token, filename, data, nil)
}

func (c *HTTPClient) Delete(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, transcriptPath(id), token, nil, nil)
}

// DownloadAudio resolves a server-relative audioURL against the base URL.
// Absolute URLs, such as presigned redirects, are used as is.
func (c *HTTPClient) DownloadAudio(ctx context.Context, audioURL string, w io.Writer) (int64, error) {
	target := audioURL
	if !strings.HasPrefix(audioURL, "http://") && !strings.HasPrefix(audioURL, "https://") {
		target = c.baseURL + audioURL
	}
	n, err := netx.Download(ctx, c.http, target, w)
	if err != nil {
		return n, fmt.Errorf("download audio: %w", err)
	}
	return n, nil
}
