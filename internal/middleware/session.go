package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

// RequireSession loads the cookie session and attaches it for handlers. After
// the handler it saves rotated tokens or a refreshed user snapshot. When the
// backend rejected the refresh token the session is destroyed.
func RequireSession(m *session.Manager, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.Load(c)
		if errors.Is(err, session.ErrNotFound) {
			_ = m.Destroy(c, nil)
			return err
		}
		if err != nil {
			// the cookie stays; the session is likely still there
			logger.Error("session_load_failed", slog.String("error", err.Error()))
			return session.ErrUnavailable
		}
		session.Attach(c, sess)
		before := sess.Tokens

		err = c.Next()
		if errors.Is(err, mobcash.ErrSessionExpired) {
			if derr := m.Destroy(c, sess); derr != nil {
				logger.Warn("session_destroy_failed", slog.String("error", derr.Error()))
			}
			return err
		}
		if session.FromCtx(c) == nil {
			// logged out
			return err
		}
		if perr := m.Persist(c.UserContext(), sess, before); perr != nil {
			logger.Error("session_persist_failed", slog.String("session", sess.ID), slog.String("error", perr.Error()))
		}
		return err
	}
}
