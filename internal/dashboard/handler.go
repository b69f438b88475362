package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Summary(c *fiber.Ctx) error {
	sum, err := h.svc.Summary(c.UserContext(), session.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(sum)
}

func (h *Handler) Bonuses(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	res, err := h.svc.Bonuses(c.UserContext(), &sess.Tokens, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) Coupons(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	res, err := h.svc.Coupons(c.UserContext(), &sess.Tokens, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
