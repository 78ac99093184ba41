package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/logging"
	"github.com/dmitrijs2005/transcribed/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "x-user-id"
	localToken  = "x-token"
)

// requireAuth verifies the bearer token and stores the subject and raw token
// in c.Locals for the handlers.
func requireAuth(v auth.Verifier, logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || auth.SchemeOnly(header) {
			return writeError(c, common.ErrorUnauthorized, "Authorization token is required")
		}
		token, ok := auth.BearerToken(header)
		if !ok {
			return writeError(c, common.ErrInvalidToken, "Invalid token")
		}

		userID, err := v.Verify(c.UserContext(), token)
		if err != nil {
			logger.Debug(c.UserContext(), "token rejected", "error", err)
			return writeError(c, err, "")
		}

		c.Locals(localUserID, userID)
		c.Locals(localToken, token)
		return c.Next()
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func token(c *fiber.Ctx) string {
	t, _ := c.Locals(localToken).(string)
	return t
}

// requestLogger logs one line per request after the handler chain ran.
func requestLogger(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		logger.Info(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return err
	}
}

// originMatcher allows exact origins and "scheme://*.domain" subdomain
// patterns.
func originMatcher(patterns []string) func(origin string) bool {
	exact := make(map[string]struct{}, len(patterns))
	type wildcard struct{ prefix, suffix string }
	var wild []wildcard

	for _, p := range patterns {
		p = strings.TrimRight(strings.TrimSpace(strings.ToLower(p)), "/")
		if p == "" {
			continue
		}
		if i := strings.Index(p, "://*."); i != -1 {
			wild = append(wild, wildcard{prefix: p[:i+3], suffix: p[i+4:]})
			continue
		}
		exact[p] = struct{}{}
	}

	return func(origin string) bool {
		origin = strings.ToLower(origin)
		if _, ok := exact[origin]; ok {
			return true
		}
		for _, w := range wild {
			if !strings.HasPrefix(origin, w.prefix) || !strings.HasSuffix(origin, w.suffix) {
				continue
			}
			// At least one label before the suffix.
			host := strings.TrimSuffix(strings.TrimPrefix(origin, w.prefix), w.suffix)
			if host != "" && !strings.ContainsAny(host, "/@:") {
				return true
			}
		}
		return false
	}
}
