package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/auth"
)

// RegisterAuthRoutes wires the public authentication endpoints. Login and OTP
// requests go through their rate limiters when given.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, loginLimiter, otpLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/login", withOptional(loginLimiter, h.Login)...)
	group.Post("/register", h.Register)
	group.Post("/password/otp", withOptional(otpLimiter, h.RequestOTP)...)
	group.Post("/password/reset", h.ResetPassword)
}

// RegisterProfileRoutes wires the session-protected account endpoints.
func RegisterProfileRoutes(r fiber.Router, h *auth.Handler) {
	r.Post("/auth/logout", h.Logout)
	r.Get("/me", h.Me)
	r.Patch("/me", h.UpdateProfile)
	r.Post("/me/password", h.ChangePassword)
}

func withOptional(mw fiber.Handler, h fiber.Handler) []fiber.Handler {
	if mw == nil {
		return []fiber.Handler{h}
	}
	return []fiber.Handler{mw, h}
}
