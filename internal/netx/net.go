// Package netx holds net/http helpers used by the API client and the
// upstream transcription providers.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
)

const maxErrorBody = 4 << 10

// Multipart builds a multipart/form-data body with one file part and the
// given plain fields (written in key order). It returns the body and its
// Content-Type header value.
func Multipart(fileField, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	part, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// ErrorBody reads at most a few KiB of resp.Body for error messages.
func ErrorBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return string(bytes.TrimSpace(b))
}

// Download streams url into w and returns the number of bytes copied.
// Redirects are followed by the client.
func Download(ctx context.Context, client *http.Client, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, ErrorBody(resp))
	}
	return io.Copy(w, resp.Body)
}
