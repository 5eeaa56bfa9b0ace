package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/otp/request", h.RequestOTP)
	app.Post("/api/v1/otp/resend", h.ResendOTP)
	app.Post("/api/v1/otp/verify", h.VerifyOTP)
	app.Delete("/api/v1/session", h.Logout)

	// Endpoints behind an authenticated session
	me := app.Group("/api/v1/me", h.RequireSession())
	me.Get("/", h.Me)
	me.Get("/notifications", h.MyNotifications)
	me.Post("/coins", h.EarnCoins)
}
