package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/dbx"
	"github.com/dmitrijs2005/transcribed/internal/media"
	"github.com/dmitrijs2005/transcribed/internal/server/blobstore"
	"github.com/dmitrijs2005/transcribed/internal/server/models"
	"github.com/dmitrijs2005/transcribed/internal/server/repositories/transcripts"
	"github.com/dmitrijs2005/transcribed/internal/server/repositories/users"
	"github.com/dmitrijs2005/transcribed/internal/transcription"
	"github.com/google/uuid"
)

// --- repositories ---

type fakeUsersRepo struct {
	mu       sync.Mutex
	byID     map[string]*models.User
	createEr error
	deleteEr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createEr != nil {
		return nil, f.createEr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteEr != nil {
		return f.deleteEr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeTranscriptsRepo struct {
	mu       sync.Mutex
	byID     map[string]*models.Transcript
	createEr error
	updateEr error
	seq      int
}

func (f *fakeTranscriptsRepo) Create(_ context.Context, t *models.Transcript) (*models.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createEr != nil {
		return nil, f.createEr
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	f.seq++
	t.CreatedAt = time.Unix(int64(f.seq), 0).UTC()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	f.byID[t.ID] = &cp
	return t, nil
}

func (f *fakeTranscriptsRepo) GetByID(_ context.Context, id string) (*models.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTranscriptsRepo) ListByUser(_ context.Context, userID string) ([]*models.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Transcript{}
	for _, t := range f.byID {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTranscriptsRepo) Update(_ context.Context, t *models.Transcript) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateEr != nil {
		return f.updateEr
	}
	if _, ok := f.byID[t.ID]; !ok {
		return common.ErrorNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTranscriptsRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTranscriptsRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.byID {
		if t.UserID == userID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	users       *fakeUsersRepo
	transcripts *fakeTranscriptsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       &fakeUsersRepo{byID: map[string]*models.User{}},
		transcripts: &fakeTranscriptsRepo{byID: map[string]*models.Transcript{}},
	}
}

func (m *fakeRepoManager) Dialect() dbx.Dialect { return dbx.DialectSQLite }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoManager) Transcripts(dbx.DBTX) transcripts.Repository { return m.transcripts }

// --- blob store ---

type fakeBlobs struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
	openErr error
	deleted []string
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{data: map[string][]byte{}} }

func key(owner, name string) string { return owner + "/" + name }

func (b *fakeBlobs) Save(_ context.Context, owner, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		return b.saveErr
	}
	b.data[key(owner, name)] = append([]byte(nil), data...)
	return nil
}

func (b *fakeBlobs) Open(_ context.Context, owner, name string) (io.ReadCloser, blobstore.Info, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, blobstore.Info{}, b.openErr
	}
	d, ok := b.data[key(owner, name)]
	if !ok {
		return nil, blobstore.Info{}, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(d)), blobstore.Info{Size: int64(len(d)), ContentType: "audio/webm"}, nil
}

func (b *fakeBlobs) Delete(_ context.Context, owner, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key(owner, name))
	b.deleted = append(b.deleted, key(owner, name))
	return nil
}

func (b *fakeBlobs) has(owner, name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.data[key(owner, name)]
	return ok
}

func (b *fakeBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// --- provider and estimator ---

type fakeProvider struct {
	res   transcription.Result
	err   error
	block bool
	calls int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Transcribe(ctx context.Context, _ transcription.Audio) (transcription.Result, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return transcription.Result{}, ctx.Err()
	}
	return p.res, p.err
}

type fixedEstimator struct {
	seconds float64
	calls   int
}

func (e *fixedEstimator) Duration(context.Context, []byte, string) (float64, media.Source) {
	e.calls++
	return e.seconds, media.SourceSize
}
