// Package blobstore keeps uploaded audio blobs under a per-owner namespace.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/filex"
)

// Info describes a stored blob.
type Info struct {
	Size        int64
	ContentType string
}

// Store saves, opens and deletes blobs addressed by (ownerID, filename).
// Open of an absent blob returns common.ErrorNotFound; Delete of an absent
// blob succeeds.
type Store interface {
	Save(ctx context.Context, ownerID, filename string, data []byte) error
	Open(ctx context.Context, ownerID, filename string) (io.ReadCloser, Info, error)
	Delete(ctx context.Context, ownerID, filename string) error
}

// Presigner is implemented by stores that can hand out time-limited direct
// download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, ownerID, filename string) (string, error)
}

// OwnerRemover is implemented by stores that keep a per-owner container,
// such as a directory, that outlives the owner's last blob.
type OwnerRemover interface {
	RemoveOwner(ctx context.Context, ownerID string) error
}

var audioTypes = map[string]string{
	".webm": "audio/webm",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
}

// ContentTypeFor guesses a media type from the filename extension.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := audioTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func validate(ownerID, filename string) error {
	if err := filex.ValidateElement(ownerID); err != nil {
		return fmt.Errorf("%w: owner: %v", common.ErrorValidation, err)
	}
	if err := filex.ValidateElement(filename); err != nil {
		return fmt.Errorf("%w: filename: %v", common.ErrorValidation, err)
	}
	return nil
}
