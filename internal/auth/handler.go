package auth

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

// Handler exposes login, registration, password and profile endpoints.
type Handler struct {
	svc      *Service
	sessions *session.Manager
	flash    Flasher
}

func NewHandler(svc *Service, sessions *session.Manager, flash Flasher) *Handler {
	return &Handler{svc: svc, sessions: sessions, flash: flash}
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := bind(c, &form); err != nil {
		return err
	}
	resp, err := h.svc.Login(c.UserContext(), form)
	if err != nil {
		return err
	}
	sess, err := h.sessions.Start(c, tokensOf(resp), resp.Data)
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Connexion réussie!")
	return c.JSON(fiber.Map{
		"user":     resp.Data,
		"message":  "Connexion réussie!",
		"redirect": "/dashboard",
	})
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var form forms.SignupForm
	if err := bind(c, &form); err != nil {
		return err
	}
	if err := h.svc.Register(c.UserContext(), form); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Compte créé avec succès! Veuillez vous connecter.",
		"redirect": "/login",
	})
}

func (h *Handler) RequestOTP(c *fiber.Ctx) error {
	var form forms.OTPRequestForm
	if err := bind(c, &form); err != nil {
		return err
	}
	wait, err := h.svc.RequestOTP(c.UserContext(), form)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Code OTP envoyé à votre email",
		"resend_in": int(wait.Seconds()),
	})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var form forms.ResetPasswordForm
	if err := bind(c, &form); err != nil {
		return err
	}
	if err := h.svc.ResetPassword(c.UserContext(), form); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Mot de passe réinitialisé avec succès!",
		"redirect": "/login",
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.svc.Profile(c.UserContext(), session.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var form forms.ProfileForm
	if err := bind(c, &form); err != nil {
		return err
	}
	sess := session.FromCtx(c)
	user, err := h.svc.UpdateProfile(c.UserContext(), sess, form)
	if err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Profil mis à jour avec succès!")
	return c.JSON(fiber.Map{"user": user, "message": "Profil mis à jour avec succès!"})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var form forms.ChangePasswordForm
	if err := bind(c, &form); err != nil {
		return err
	}
	sess := session.FromCtx(c)
	if err := h.svc.ChangePassword(c.UserContext(), sess, form); err != nil {
		return err
	}
	h.flash.Success(c.UserContext(), sess.ID, "Mot de passe modifié avec succès!")
	return c.JSON(fiber.Map{"message": "Mot de passe modifié avec succès!"})
}

type logoutRequest struct {
	PushToken string `json:"push_token"`
}

// Logout ends the session. The push token is optional.
func (h *Handler) Logout(c *fiber.Ctx) error {
	var req logoutRequest
	_ = c.BodyParser(&req)
	sess := session.FromCtx(c)
	h.svc.Logout(c.UserContext(), sess, req.PushToken)
	if err := h.sessions.Destroy(c, sess); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"redirect": "/login"})
}
