// Package server wires configuration, storage, the transcription provider
// and the services together, and runs the HTTP API and the optional gRPC
// health endpoint until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/dmitrijs2005/transcribed/internal/media"
	"github.com/dmitrijs2005/transcribed/internal/server/auth"
	"github.com/dmitrijs2005/transcribed/internal/server/blobstore"
	"github.com/dmitrijs2005/transcribed/internal/server/config"
	"github.com/dmitrijs2005/transcribed/internal/server/httpapi"
	"github.com/dmitrijs2005/transcribed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/transcribed/internal/server/services"
	"github.com/dmitrijs2005/transcribed/internal/transcription"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/transcribed/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	http    *httpapi.Server
	grpc    *gs.GRPCServer
	closers []io.Closer
}

// Seams for tests.
var (
	openDatabase = repomanager.Open
	newS3Store   = func(ctx context.Context, o blobstore.S3Options) (blobstore.Store, error) {
		return blobstore.NewS3Store(ctx, o)
	}
)

func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	if out == nil {
		out = os.Stdout
	}
	logger := logging.NewJSONLogger(out, c.LogLevel)

	db, m, err := openDatabase(ctx, c.DatabaseDSN, c.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app := &App{config: c, logger: logger, db: db, closers: []io.Closer{db}}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	provider := transcription.NewLazy(c.TranscriptionProvider, func() (transcription.Provider, error) {
		return transcription.NewFromConfig(providerOptions(c))
	})

	var revoker auth.Revoker = auth.NopRevoker{}
	if c.RedisAddr != "" {
		r, client := auth.NewRedisRevokerFromAddr(c.RedisAddr, c.RedisPassword, c.RedisDB)
		revoker = r
		app.closers = append(app.closers, client)
	}
	tokens := auth.NewTokenManager(c.SecretKey, c.AccessTokenValidityDuration, revoker)

	users := services.NewUserService(db, m, tokens, auth.BcryptHasher{}, blobs, logger)
	transcripts := services.NewTranscriptService(db, m, blobs, media.NewEstimator(c.FFprobeBinary, logger),
		provider, c.TranscriptionTimeout, logger)
	audio := services.NewAudioService(blobs, c.S3PresignAudio, logger)

	app.http = httpapi.NewServer(httpapi.Options{
		Address:         c.HTTPAddr,
		MaxUploadSize:   c.MaxUploadSize,
		CORSOrigins:     c.CORSOrigins,
		ShutdownTimeout: c.ShutdownTimeout,
		Users:           users,
		Transcripts:     transcripts,
		Audio:           audio,
		Verifier:        tokens,
		DB:              db,
		ProviderStatus:  provider.Status,
		Logger:          logger,
	})

	if c.GRPCAddr != "" {
		app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger)
	}

	logger.Info(ctx, "app initialised",
		"database", string(m.Dialect()),
		"blob_backend", c.BlobBackend,
		"provider", provider.Name(),
		"revocation", c.RedisAddr != "",
	)
	return app, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	if c.BlobBackend == config.BlobBackendS3 {
		return newS3Store(ctx, blobstore.S3Options{
			Region:       c.S3Region,
			Endpoint:     c.S3Endpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			UsePathStyle: c.S3UsePathStyle,
			PresignTTL:   c.S3PresignTTL,
		})
	}
	return blobstore.NewFSStore(c.AudioDir)
}

func providerOptions(c *config.Config) transcription.Options {
	return transcription.Options{
		Provider:      c.TranscriptionProvider,
		OpenAIAPIKey:  c.OpenAIAPIKey,
		OpenAIModel:   c.OpenAIModel,
		OpenAIBaseURL: c.OpenAIBaseURL,
		HFAPIToken:    c.HFAPIToken,
		HFModel:       c.HFModel,
		HFBaseURL:     c.HFBaseURL,
		LocalBinary:   c.LocalWhisperBinary,
		LocalModel:    c.LocalWhisperModel,
		HTTPTimeout:   c.TranscriptionTimeout,
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a signal arrives, ctx is cancelled or one server fails;
// the others are then shut down and resources released.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.http.Run(gctx)
	})
	if app.grpc != nil {
		g.Go(func() error {
			return app.grpc.Run(gctx)
		})
	}

	err := g.Wait()
	if cerr := app.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "app stopped with error", "error", err)
		return err
	}
	app.logger.Info(ctx, "app stopped")
	return nil
}

func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
