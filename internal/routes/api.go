package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/accounts"
	"github.com/zefast/zefast_web/internal/catalog"
	"github.com/zefast/zefast_web/internal/dashboard"
	"github.com/zefast/zefast_web/internal/history"
	"github.com/zefast/zefast_web/internal/journal"
	"github.com/zefast/zefast_web/internal/notification"
	"github.com/zefast/zefast_web/internal/wizard"
)

func RegisterDashboardRoutes(r fiber.Router, h *dashboard.Handler) {
	r.Get("/dashboard", h.Summary)
	r.Get("/bonuses", h.Bonuses)
	r.Get("/coupons", h.Coupons)
}

func RegisterCatalogRoutes(r fiber.Router, h *catalog.Handler) {
	group := r.Group("/catalog/:kind")
	group.Get("/networks", h.Networks)
	group.Get("/platforms", h.Platforms)
}

func RegisterAccountRoutes(r fiber.Router, h *accounts.Handler) {
	phones := r.Group("/phones")
	phones.Get("/", h.ListPhones)
	phones.Post("/", h.AddPhone)
	phones.Patch("/:id", h.UpdatePhone)
	phones.Delete("/:id", h.DeletePhone)

	appIDs := r.Group("/app-ids")
	appIDs.Get("/", h.ListAppIDs)
	appIDs.Post("/", h.AddAppID)
	appIDs.Post("/verify", h.VerifyAppID)
	appIDs.Patch("/:id", h.UpdateAppID)
	appIDs.Delete("/:id", h.DeleteAppID)
}

// RegisterWizardRoutes wires the deposit/withdrawal wizard. Confirmation goes
// through the idempotency middleware.
func RegisterWizardRoutes(r fiber.Router, h *wizard.Handler, idempotency fiber.Handler) {
	group := r.Group("/wizard/:kind")
	group.Get("/", h.Get)
	group.Delete("/", h.Reset)
	group.Post("/platform", h.Platform)
	group.Post("/account", h.Account)
	group.Post("/network", h.Network)
	group.Post("/phone", h.Phone)
	group.Post("/amount", h.Amount)
	group.Post("/next", h.Next)
	group.Post("/previous", h.Previous)
	group.Post("/confirm", idempotency, h.Confirm)
}

func RegisterTransactionRoutes(r fiber.Router, h *history.Handler, j *journal.Handler) {
	group := r.Group("/transactions")
	group.Get("/", h.List)
	group.Get("/last", h.Last)
	group.Post("/:reference/cancel", h.Cancel)
	group.Post("/:reference/finalize", h.Finalize)
	r.Get("/submissions", j.List)
}

func RegisterNotificationRoutes(r fiber.Router, h *notification.Handler) {
	r.Get("/flash", h.Flash)
	r.Get("/notifications", h.Inbox)
	r.Post("/devices", h.RegisterDevice)
	r.Delete("/devices/:token", h.DeleteDevice)
}
