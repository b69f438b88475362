package journal

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/session"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List serves the current user's own submissions, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	entries, err := h.repo.ListByUser(c.UserContext(), sess.User.ID, c.QueryInt("limit", DefaultLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"submissions": entries})
}
