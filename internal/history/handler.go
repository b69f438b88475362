package history

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/session"
)

// Flasher queues success messages for the session.
type Flasher interface {
	Success(ctx context.Context, sid, message string)
}

type Handler struct {
	svc   *Service
	flash Flasher
}

func NewHandler(svc *Service, flash Flasher) *Handler {
	return &Handler{svc: svc, flash: flash}
}

// List serves GET /transactions?page=&page_size=&type=&status=&search=.
func (h *Handler) List(c *fiber.Ctx) error {
	f := Filter{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", DefaultPageSize),
		Type:     c.Query("type", FilterAll),
		Status:   c.Query("status", FilterAll),
		Search:   c.Query("search"),
	}
	sess := session.FromCtx(c)
	res, err := h.svc.List(c.UserContext(), &sess.Tokens, f)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) Last(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	v, err := h.svc.Last(c.UserContext(), &sess.Tokens)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if err := h.svc.Cancel(c.UserContext(), &sess.Tokens, c.Params("reference")); err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Transaction annulée avec succès")
	return c.JSON(fiber.Map{"message": "Transaction annulée avec succès"})
}

func (h *Handler) Finalize(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	v, err := h.svc.Finalize(c.UserContext(), &sess.Tokens, c.Params("reference"))
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Transaction finalisée avec succès")
	return c.JSON(fiber.Map{"message": "Transaction finalisée avec succès", "transaction": v})
}
