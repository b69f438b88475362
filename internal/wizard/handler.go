package wizard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/catalog"
	"github.com/zefast/zefast_web/internal/mobcash"
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

type selectRequest struct {
	ID         int    `json:"id"`
	PlatformID string `json:"platform_id"`
}

type amountRequest struct {
	Amount         json.RawMessage `json:"amount"`
	WithdrawalCode string          `json:"withdriwal_code"`
}

func view(st *State) fiber.Map {
	return fiber.Map{
		"wizard":          st,
		"step_valid":      st.StepValid(),
		"network_message": st.NetworkMessage(),
	}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	kind, err := catalog.KindParam(c)
	if err != nil {
		return err
	}
	st, err := h.svc.State(c.UserContext(), session.FromCtx(c), kind)
	if err != nil {
		return err
	}
	return c.JSON(view(st))
}

func (h *Handler) Platform(c *fiber.Ctx) error {
	return h.selectStep(c, func(ctx context.Context, sess *session.Session, kind mobcash.Kind, req selectRequest) (*State, error) {
		if req.PlatformID == "" {
			return nil, fiber.NewError(http.StatusBadRequest, "Plateforme non sélectionnée")
		}
		return h.svc.SelectPlatform(ctx, sess, kind, req.PlatformID)
	})
}

func (h *Handler) Account(c *fiber.Ctx) error {
	return h.selectStep(c, func(ctx context.Context, sess *session.Session, kind mobcash.Kind, req selectRequest) (*State, error) {
		return h.svc.SelectAccount(ctx, sess, kind, req.ID)
	})
}

func (h *Handler) Network(c *fiber.Ctx) error {
	return h.selectStep(c, func(ctx context.Context, sess *session.Session, kind mobcash.Kind, req selectRequest) (*State, error) {
		return h.svc.SelectNetwork(ctx, sess, kind, req.ID)
	})
}

func (h *Handler) Phone(c *fiber.Ctx) error {
	return h.selectStep(c, func(ctx context.Context, sess *session.Session, kind mobcash.Kind, req selectRequest) (*State, error) {
		return h.svc.SelectPhone(ctx, sess, kind, req.ID)
	})
}

func (h *Handler) selectStep(c *fiber.Ctx, fn func(context.Context, *session.Session, mobcash.Kind, selectRequest) (*State, error)) error {
	kind, err := catalog.KindParam(c)
	if err != nil {
		return err
	}
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	st, err := fn(c.UserContext(), session.FromCtx(c), kind, req)
	if err != nil {
		return err
	}
	return c.JSON(view(st))
}

func (h *Handler) Amount(c *fiber.Ctx) error {
	kind, err := catalog.KindParam(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return err
	}
	st, err := h.svc.SetAmount(c.UserContext(), session.FromCtx(c), kind, amount, req.WithdrawalCode)
	if err != nil {
		return err
	}
	return c.JSON(view(st))
}

func (h *Handler) Next(c *fiber.Ctx) error {
	kind, err := catalog.KindParam(c)
	if err != nil {
		return err
	}
	st, err := h.svc.Next(c.UserContext(), session.FromCtx(c), kind)
	if err != nil {
		return err
	}
	return c.JSON(view(st))
}

func (h *Handler) Previous(c *fiber.Ctx) error {
	kind, err := catalog.KindParam(c)
	if err != nil {
		return err
	}
	st, err := h.svc.Previous(c.UserContext(), session.FromCtx(c), kind)
	if err != nil {
		return err
	}
	return c.JSON(view(st))
}

func (h *Handler) Reset(c *fiber.Ctx) error {
	kind, err := catalog.KindParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Reset(c.UserContext(), session.FromCtx(c), kind); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Confirm submits the wizard. The outcome's message is also queued as a flash.
func (h *Handler) Confirm(c *fiber.Ctx) error {
	kind, err := catalog.KindParam(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	out, err := h.svc.Confirm(c.UserContext(), sess, kind)
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, out.Message)
	return c.Status(http.StatusCreated).JSON(out)
}
