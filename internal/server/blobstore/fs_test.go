package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFSStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(filepath.Join(t.TempDir(), "audio_files"))
	require.NoError(t, err)
	return s
}

func TestFSStore_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)

	require.NoError(t, s.Save(ctx, "u-1", "recording_20240101_120000.webm", []byte("webm-data")))

	_, err := os.Stat(filepath.Join(s.Root(), "u-1", "recording_20240101_120000.webm"))
	require.NoError(t, err)

	rc, info, err := s.Open(ctx, "u-1", "recording_20240101_120000.webm")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	assert.Equal(t, "webm-data", string(b))
	assert.Equal(t, Info{Size: 9, ContentType: "audio/webm"}, info)

	require.NoError(t, s.Delete(ctx, "u-1", "recording_20240101_120000.webm"))
	_, _, err = s.Open(ctx, "u-1", "recording_20240101_120000.webm")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFSStore_DeleteMissingIsNotAnError(t *testing.T) {
	s := newFSStore(t)
	assert.NoError(t, s.Delete(context.Background(), "u-1", "nothing.wav"))
}

func TestFSStore_OwnerNamespacesAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)
	require.NoError(t, s.Save(ctx, "u-1", "a.wav", []byte("x")))

	_, _, err := s.Open(ctx, "u-2", "a.wav")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)

	cases := []struct{ owner, file string }{
		{"..", "x.wav"},
		{"u-1", "../x.wav"},
		{"u-1", "a/b.wav"},
		{"", "x.wav"},
		{"u-1", ""},
	}
	for _, c := range cases {
		assert.ErrorIs(t, s.Save(ctx, c.owner, c.file, []byte("x")), common.ErrorValidation, "%+v", c)
		_, _, err := s.Open(ctx, c.owner, c.file)
		assert.ErrorIs(t, err, common.ErrorValidation, "%+v", c)
		assert.ErrorIs(t, s.Delete(ctx, c.owner, c.file), common.ErrorValidation, "%+v", c)
	}
}

func TestFSStore_RemoveOwner(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)
	require.NoError(t, s.Save(ctx, "u-1", "a.webm", []byte("a")))
	require.NoError(t, s.Save(ctx, "u-2", "b.webm", []byte("b")))
	require.NoError(t, s.Delete(ctx, "u-1", "a.webm"))

	require.NoError(t, s.RemoveOwner(ctx, "u-1"))
	_, err := os.Stat(filepath.Join(s.Root(), "u-1"))
	assert.True(t, os.IsNotExist(err), "owner directory removed")
	_, err = os.Stat(filepath.Join(s.Root(), "u-2", "b.webm"))
	assert.NoError(t, err, "other owners untouched")

	require.NoError(t, s.RemoveOwner(ctx, "u-1"), "missing directory is fine")
	assert.ErrorIs(t, s.RemoveOwner(ctx, ".."), common.ErrorValidation)
	assert.ErrorIs(t, s.RemoveOwner(ctx, ""), common.ErrorValidation)

	_, err = os.Stat(s.Root())
	assert.NoError(t, err, "root survives")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "audio/webm", ContentTypeFor("a.WEBM"))
	assert.Equal(t, "audio/wav", ContentTypeFor("a.wav"))
	assert.Equal(t, "audio/mpeg", ContentTypeFor("a.mp3"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("noext"))
}
