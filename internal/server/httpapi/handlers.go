package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/dmitrijs2005/transcribed/internal/server/auth"
	"github.com/dmitrijs2005/transcribed/internal/server/blobstore"
	"github.com/dmitrijs2005/transcribed/internal/server/models"
	"github.com/dmitrijs2005/transcribed/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type Users interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	DeleteAccount(ctx context.Context, userID string) error
}

type Transcripts interface {
	Transcribe(ctx context.Context, userID string, up services.Upload, name string) (*models.Transcript, error)
	List(ctx context.Context, userID string) ([]*models.Transcript, error)
	Get(ctx context.Context, userID, id string) (*models.Transcript, error)
	Update(ctx context.Context, userID, id string, p services.Patch) (*models.Transcript, error)
	ReplaceAudio(ctx context.Context, userID, id string, up services.Upload) (*models.Transcript, error)
	Delete(ctx context.Context, userID, id string) error
}

type Audio interface {
	Open(ctx context.Context, d auth.Decision, ownerID, filename string) (io.ReadCloser, blobstore.Info, error)
	PresignURL(ctx context.Context, d auth.Decision, ownerID, filename string) (string, bool, error)
}

type handlers struct {
	users          Users
	transcripts    Transcripts
	audio          Audio
	guard          *auth.Guard
	db             Pinger
	providerStatus func() string
	logger         logging.Logger
}

func (h *handlers) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if h.db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "error": "database not configured", "timestamp": now,
		})
	}
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error(ctx, "health check failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "error": "database unavailable", "timestamp": now,
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"database":  "connected",
		"provider":  h.providerStatus(),
		"timestamp": now,
	})
}

func (h *handlers) signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrorValidation, "Invalid request body")
	}

	if _, err := h.users.Signup(c.UserContext(), req.Username, req.Email, req.Password); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return writeError(c, err, "Email already registered")
		}
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: "User created successfully"})
}

func (h *handlers) login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrorValidation, "Invalid request body")
	}

	token, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return writeError(c, err, "Invalid credentials")
		}
		return writeError(c, err, "")
	}
	return c.JSON(tokenResponse{AccessToken: token})
}

func (h *handlers) logout(c *fiber.Ctx) error {
	if err := h.users.Logout(c.UserContext(), token(c)); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(messageResponse{Message: "Logged out"})
}

func (h *handlers) me(c *fiber.Ctx) error {
	u, err := h.users.Me(c.UserContext(), userID(c))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(toUser(u))
}

func (h *handlers) deleteAccount(c *fiber.Ctx) error {
	if err := h.users.DeleteAccount(c.UserContext(), userID(c)); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(messageResponse{Message: "Account deleted successfully"})
}

func (h *handlers) listTranscripts(c *fiber.Ctx) error {
	list, err := h.transcripts.List(c.UserContext(), userID(c))
	if err != nil {
		return writeError(c, err, "Failed to fetch transcripts")
	}

	out := make([]transcriptResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTranscript(t, token(c)))
	}
	return c.JSON(out)
}

func (h *handlers) getTranscript(c *fiber.Ctx) error {
	t, err := h.transcripts.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(toTranscript(t, token(c)))
}

func (h *handlers) transcribe(c *fiber.Ctx) error {
	up, err := readUpload(c)
	if err != nil {
		return writeError(c, err, "")
	}

	t, err := h.transcripts.Transcribe(c.UserContext(), userID(c), up, c.FormValue("name"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(toTranscript(t, token(c)))
}

func (h *handlers) updateTranscript(c *fiber.Ctx) error {
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrorValidation, "Invalid request body")
	}

	t, err := h.transcripts.Update(c.UserContext(), userID(c), c.Params("id"), services.Patch{Name: req.Name, Text: req.Text})
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(toTranscript(t, token(c)))
}

func (h *handlers) replaceAudio(c *fiber.Ctx) error {
	up, err := readUpload(c)
	if err != nil {
		return writeError(c, err, "")
	}

	t, err := h.transcripts.ReplaceAudio(c.UserContext(), userID(c), c.Params("id"), up)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(toTranscript(t, token(c)))
}

func (h *handlers) deleteTranscript(c *fiber.Ctx) error {
	if err := h.transcripts.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(messageResponse{Message: "Transcript deleted successfully"})
}

var errNoAudio = fmt.Errorf("%w: no audio file provided", common.ErrorValidation)

// readUpload reads the multipart "audio" field into memory. The body limit
// bounds its size.
func readUpload(c *fiber.Ctx) (services.Upload, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		return services.Upload{}, errNoAudio
	}
	if fh.Filename == "" {
		return services.Upload{}, fmt.Errorf("%w: no file selected", common.ErrorValidation)
	}

	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, errNoAudio
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return services.Upload{}, errNoAudio
	}

	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func (h *handlers) audioByHeader(c *fiber.Ctx) error {
	return h.serveAudio(c, auth.ChannelHeader, c.Get(fiber.HeaderAuthorization))
}

func (h *handlers) audioByQuery(c *fiber.Ctx) error {
	return h.serveAudio(c, auth.ChannelQuery, c.Query("token"))
}

// serveAudio runs the access guard before touching the store. Denials are
// logged with their reason; the client only sees 401 or 403.
func (h *handlers) serveAudio(c *fiber.Ctx, ch auth.Channel, credential string) error {
	ctx := c.UserContext()
	owner, filename := c.Params("userId"), c.Params("filename")

	d := h.guard.Check(ctx, ch, credential, owner)
	if !d.Allowed {
		h.logger.Info(ctx, "audio access denied", "channel", ch.String(), "reason", d.Reason.String(), "owner_id", owner)
		return writeError(c, d.Err(), "")
	}

	url, ok, err := h.audio.PresignURL(ctx, d, owner, filename)
	if errors.Is(err, common.ErrorNotFound) {
		return writeError(c, err, "File not found")
	}
	if ok {
		return c.Redirect(url, fiber.StatusFound)
	}

	rc, info, err := h.audio.Open(ctx, d, owner, filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return writeError(c, err, "File not found")
		}
		return writeError(c, err, "")
	}

	c.Set(fiber.HeaderContentType, info.ContentType)
	return c.SendStream(rc, int(info.Size))
}
