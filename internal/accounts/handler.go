package accounts

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/forms"
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

func idParam(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "Identifiant invalide")
	}
	return id, nil
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (h *Handler) ListPhones(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	list, err := h.svc.Phones(c.UserContext(), &sess.Tokens, c.QueryInt("network", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"phones": list, "countries": forms.Countries})
}

func (h *Handler) AddPhone(c *fiber.Ctx) error {
	var form forms.PhoneForm
	if err := bind(c, &form); err != nil {
		return err
	}
	sess := session.FromCtx(c)
	phone, err := h.svc.AddPhone(c.UserContext(), &sess.Tokens, form)
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Numéro ajouté avec succès!")
	return c.Status(http.StatusCreated).JSON(phone)
}

func (h *Handler) UpdatePhone(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form forms.PhoneForm
	if err := bind(c, &form); err != nil {
		return err
	}
	sess := session.FromCtx(c)
	phone, err := h.svc.UpdatePhone(c.UserContext(), &sess.Tokens, id, form)
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Numéro modifié avec succès!")
	return c.JSON(phone)
}

func (h *Handler) DeletePhone(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.svc.DeletePhone(c.UserContext(), &sess.Tokens, id); err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Numéro supprimé avec succès!")
	return c.SendStatus(http.StatusNoContent)
}

func (h *Handler) ListAppIDs(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	list, err := h.svc.AppIDs(c.UserContext(), &sess.Tokens, c.Query("platform"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"app_ids": list})
}

// VerifyAppID checks a bet id without saving it.
func (h *Handler) VerifyAppID(c *fiber.Ctx) error {
	var form forms.AppIDForm
	if err := bind(c, &form); err != nil {
		return err
	}
	sess := session.FromCtx(c)
	holder, err := h.svc.VerifyAppID(c.UserContext(), &sess.Tokens, form)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"holder": holder})
}

func (h *Handler) AddAppID(c *fiber.Ctx) error {
	var form forms.AppIDForm
	if err := bind(c, &form); err != nil {
		return err
	}
	sess := session.FromCtx(c)
	saved, holder, err := h.svc.AddAppID(c.UserContext(), &sess.Tokens, form)
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "ID de pari ajouté avec succès")
	return c.Status(http.StatusCreated).JSON(fiber.Map{"app_id": saved, "holder": holder})
}

func (h *Handler) UpdateAppID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form forms.AppIDForm
	if err := bind(c, &form); err != nil {
		return err
	}
	sess := session.FromCtx(c)
	saved, holder, err := h.svc.UpdateAppID(c.UserContext(), &sess.Tokens, id, form)
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "ID de pari modifié avec succès")
	return c.JSON(fiber.Map{"app_id": saved, "holder": holder})
}

func (h *Handler) DeleteAppID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.svc.DeleteAppID(c.UserContext(), &sess.Tokens, id); err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "ID de pari supprimé avec succès!")
	return c.SendStatus(http.StatusNoContent)
}
