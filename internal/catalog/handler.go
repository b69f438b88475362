package catalog

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// KindParam reads the :kind route parameter.
func KindParam(c *fiber.Ctx) (mobcash.Kind, error) {
	kind, err := mobcash.ParseKind(c.Params("kind"))
	if err != nil {
		return "", fiber.NewError(http.StatusBadRequest, "Type de transaction invalide")
	}
	return kind, nil
}

func (h *Handler) Networks(c *fiber.Ctx) error {
	kind, err := KindParam(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	list, err := h.svc.Networks(c.UserContext(), &sess.Tokens, kind)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"kind": kind, "networks": list})
}

func (h *Handler) Platforms(c *fiber.Ctx) error {
	kind, err := KindParam(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	list, err := h.svc.Platforms(c.UserContext(), &sess.Tokens, kind)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"kind": kind, "platforms": list})
}
