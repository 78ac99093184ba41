package transcription

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
)

const defaultLocalBinary = "whisper-cli"

var commandContext = exec.CommandContext

// LocalProvider runs a whisper.cpp compatible binary over a temp copy of the
// audio and reads the transcript from stdout.
type LocalProvider struct {
	binary  string
	model   string
	tempDir string
}

func NewLocalProvider(binary, model string) *LocalProvider {
	if strings.TrimSpace(binary) == "" {
		binary = defaultLocalBinary
	}
	return &LocalProvider{binary: binary, model: model}
}

func (p *LocalProvider) Name() string { return ProviderLocal }

func (p *LocalProvider) Transcribe(ctx context.Context, audio Audio) (Result, error) {
	ext := filepath.Ext(audio.Filename)
	if ext == "" {
		ext = ".wav"
	}

	f, err := os.CreateTemp(p.tempDir, "transcribe-*"+ext)
	if err != nil {
		return Result{}, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio.Data); err != nil {
		_ = f.Close()
		return Result{}, fmt.Errorf("write temp: %w", err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("close temp: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, p.binary, "-m", p.model, "-f", f.Name(), "-nt", "-np") //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("%w: %s: %v: %s", common.ErrorUpstream, p.binary, err, strings.TrimSpace(stderr.String()))
	}

	return Result{Text: strings.Join(strings.Fields(stdout.String()), " ")}, nil
}
