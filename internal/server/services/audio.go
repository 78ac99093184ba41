package services

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/dmitrijs2005/transcribed/internal/server/auth"
	"github.com/dmitrijs2005/transcribed/internal/server/blobstore"
)

// AudioService serves blobs to callers the access guard allowed.
type AudioService struct {
	blobs   blobstore.Store
	presign bool
	logger  logging.Logger
}

// NewAudioService returns an AudioService. With presign set and a store that
// implements blobstore.Presigner, PresignURL hands out direct URLs.
func NewAudioService(blobs blobstore.Store, presign bool, logger logging.Logger) *AudioService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &AudioService{blobs: blobs, presign: presign, logger: logger.With("module", "audio")}
}

// Open returns the blob only for an allowing decision. The store is not
// touched otherwise.
func (s *AudioService) Open(ctx context.Context, d auth.Decision, ownerID, filename string) (io.ReadCloser, blobstore.Info, error) {
	if !d.Allowed {
		return nil, blobstore.Info{}, d.Err()
	}

	rc, info, err := s.blobs.Open(ctx, ownerID, filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorValidation) {
			return nil, blobstore.Info{}, common.ErrorNotFound
		}
		s.logger.Error(ctx, "open blob failed", "error", err)
		return nil, blobstore.Info{}, common.ErrorInternal
	}
	return rc, info, nil
}

// PresignURL returns a direct download URL when presigning is enabled and
// supported. ok is false when the blob must be streamed through Open. An
// absent blob is common.ErrorNotFound, the same as Open.
func (s *AudioService) PresignURL(ctx context.Context, d auth.Decision, ownerID, filename string) (url string, ok bool, err error) {
	if !d.Allowed {
		return "", false, d.Err()
	}
	p, can := s.blobs.(blobstore.Presigner)
	if !s.presign || !can {
		return "", false, nil
	}

	url, err = p.PresignGet(ctx, ownerID, filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorValidation) {
			return "", false, common.ErrorNotFound
		}
		s.logger.Warn(ctx, "presign failed, streaming instead", "error", err)
		return "", false, nil
	}
	return url, true, nil
}
