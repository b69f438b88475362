package notification

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/session"
)

// Handler exposes flashes, the inbox and push device registration.
type Handler struct {
	svc *Notifier
}

func NewHandler(svc *Notifier) *Handler {
	return &Handler{svc: svc}
}

// Flash drains pending flashes for the current session.
func (h *Handler) Flash(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	flashes, err := h.svc.Drain(c.UserContext(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"flashes": flashes})
}

func (h *Handler) Inbox(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	page, err := h.svc.Inbox(c.UserContext(), &sess.Tokens, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

type deviceRequest struct {
	RegistrationID string `json:"registration_id"`
	Type           string `json:"type"`
}

func (h *Handler) RegisterDevice(c *fiber.Ctx) error {
	var req deviceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.RegistrationID) == "" {
		return forms.FieldError("registration_id", "Jeton de notification requis")
	}
	sess := session.FromCtx(c)
	if err := h.svc.RegisterDevice(c.UserContext(), &sess.Tokens, sess.User.ID, req.RegistrationID, req.Type); err != nil {
		return err
	}
	h.svc.Success(c.UserContext(), sess.ID, "Notifications activées!")
	return c.Status(http.StatusCreated).JSON(fiber.Map{"registered": true})
}

func (h *Handler) DeleteDevice(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if err := h.svc.DeleteDevice(c.UserContext(), &sess.Tokens, c.Params("token")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
