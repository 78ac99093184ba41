package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/dmitrijs2005/transcribed/internal/server/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"
)

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options wires the server to its services.
type Options struct {
	Address         string
	MaxUploadSize   int
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	Users       Users
	Transcripts Transcripts
	Audio       Audio
	Verifier    auth.Verifier
	DB          Pinger
	// ProviderStatus reports "configured" or "missing" for the health check.
	ProviderStatus func() string

	Logger logging.Logger
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	app             *fiber.App
	logger          logging.Logger
}

func NewServer(o Options) *Server {
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 10 * time.Second
	}
	if o.ProviderStatus == nil {
		o.ProviderStatus = func() string { return "missing" }
	}

	logger := o.Logger.With("module", "http_server")

	app := fiber.New(fiber.Config{
		AppName:               "transcribed",
		BodyLimit:             o.MaxUploadSize,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return xid.New().String() },
	}))
	app.Use(requestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: originMatcher(o.CORSOrigins),
		AllowCredentials: true,
		AllowHeaders:     "Content-Type, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
	}))

	h := &handlers{
		users:          o.Users,
		transcripts:    o.Transcripts,
		audio:          o.Audio,
		guard:          auth.NewGuard(o.Verifier),
		db:             o.DB,
		providerStatus: o.ProviderStatus,
		logger:         logger,
	}
	h.routes(app, o.Verifier)

	return &Server{address: o.Address, shutdownTimeout: o.ShutdownTimeout, app: app, logger: logger}
}

// App exposes the fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	if err := s.app.ShutdownWithTimeout(s.shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
