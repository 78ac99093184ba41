package transcription

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	p, err := NewFromConfig(Options{Provider: "openai", OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	p, err = NewFromConfig(Options{Provider: "HuggingFace", HFAPIToken: "t"})
	require.NoError(t, err)
	assert.IsType(t, &HuggingFaceProvider{}, p)

	p, err = NewFromConfig(Options{Provider: "local", LocalModel: "m.bin"})
	require.NoError(t, err)
	assert.IsType(t, &LocalProvider{}, p)

	for _, o := range []Options{
		{Provider: "openai"},
		{Provider: "huggingface"},
		{Provider: "local"},
		{Provider: "azure"},
	} {
		_, err := NewFromConfig(o)
		assert.ErrorIs(t, err, common.ErrorValidation, o.Provider)
	}
}

type stubProvider struct {
	res Result
	err error
}

func (s *stubProvider) Name() string { return "stub" }
func (s *stubProvider) Transcribe(context.Context, Audio) (Result, error) {
	return s.res, s.err
}

func TestLazy_BuildsOnce(t *testing.T) {
	built := 0
	l := NewLazy("stub", func() (Provider, error) {
		built++
		return &stubProvider{res: Result{Text: "hi"}}, nil
	})
	assert.Equal(t, 0, built)

	for i := 0; i < 3; i++ {
		res, err := l.Transcribe(context.Background(), Audio{})
		require.NoError(t, err)
		assert.Equal(t, "hi", res.Text)
	}
	assert.Equal(t, 1, built)
	assert.Equal(t, "configured", l.Status())
	assert.Equal(t, "stub", l.Name())
}

func TestLazy_RemembersConstructionError(t *testing.T) {
	built := 0
	l := NewLazy("openai", func() (Provider, error) {
		built++
		return nil, errors.New("no key")
	})

	_, err := l.Transcribe(context.Background(), Audio{})
	assert.ErrorIs(t, err, common.ErrorUpstream)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "no key")
	_, err = l.Transcribe(context.Background(), Audio{})
	assert.Error(t, err)
	assert.Equal(t, "missing", l.Status())
	assert.Equal(t, 1, built)
}
