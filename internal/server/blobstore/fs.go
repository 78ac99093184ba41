package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/filex"
)

// FSStore lays blobs out as <root>/<owner>/<filename>.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	abs, err := filex.EnsureDir(root, 0o750)
	if err != nil {
		return nil, err
	}
	return &FSStore{root: abs}, nil
}

func (s *FSStore) Root() string { return s.root }

func (s *FSStore) Save(_ context.Context, ownerID, filename string, data []byte) error {
	if err := validate(ownerID, filename); err != nil {
		return err
	}
	dir, err := filex.EnsureDir(filepath.Join(s.root, ownerID), 0o750)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(filepath.Join(dir, filename), data, 0o640); err != nil {
		return fmt.Errorf("save blob: %w", err)
	}
	return nil
}

func (s *FSStore) Open(_ context.Context, ownerID, filename string) (io.ReadCloser, Info, error) {
	if err := validate(ownerID, filename); err != nil {
		return nil, Info{}, err
	}

	f, err := os.Open(filepath.Join(s.root, ownerID, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Info{}, common.ErrorNotFound
		}
		return nil, Info{}, fmt.Errorf("open blob: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, Info{}, fmt.Errorf("stat blob: %w", err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, Info{}, common.ErrorNotFound
	}

	return f, Info{Size: st.Size(), ContentType: ContentTypeFor(filename)}, nil
}

func (s *FSStore) Delete(_ context.Context, ownerID, filename string) error {
	if err := validate(ownerID, filename); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, ownerID, filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// RemoveOwner deletes the owner's directory with anything left in it. A
// missing directory is not an error.
func (s *FSStore) RemoveOwner(_ context.Context, ownerID string) error {
	if err := filex.ValidateElement(ownerID); err != nil {
		return fmt.Errorf("%w: owner: %v", common.ErrorValidation, err)
	}
	if err := os.RemoveAll(filepath.Join(s.root, ownerID)); err != nil {
		return fmt.Errorf("remove owner dir: %w", err)
	}
	return nil
}
