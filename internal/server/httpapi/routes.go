package httpapi

import (
	"github.com/dmitrijs2005/transcribed/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

func (h *handlers) routes(app *fiber.App, v auth.Verifier) {
	api := app.Group("/api")

	api.Get("/health", h.health)
	api.Post("/signup", h.signup)
	api.Post("/login", h.login)

	authed := requireAuth(v, h.logger)

	api.Post("/logout", authed, h.logout)
	api.Get("/me", authed, h.me)
	api.Delete("/me", authed, h.deleteAccount)

	api.Get("/transcripts", authed, h.listTranscripts)
	api.Get("/transcripts/:id", authed, h.getTranscript)
	api.Post("/transcribe", authed, h.transcribe)
	api.Put("/transcripts/:id", authed, h.updateTranscript)
	api.Put("/transcripts/:id/audio", authed, h.replaceAudio)
	api.Delete("/transcripts/:id", authed, h.deleteTranscript)

	api.Get("/audio/:userId/:filename", h.audioByHeader)
	app.Get("/audio/:userId/:filename", h.audioByQuery)
}
