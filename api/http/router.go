package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/msulikowski96-cmd/newcvtoai/api/http/handlers"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/avatar"
)

// Register wires all HTTP routes onto the given Fiber app. requireAuth
// re-verifies the session against storage on every protected call.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	profile *handlers.ProfileHandler,
	history *handlers.HistoryHandler,
	analyze *handlers.AnalyzeHandler,
	health *handlers.HealthHandler,
	requireAuth fiber.Handler,
	avatarDir string,
) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	a := api.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)
	a.Get("/me", requireAuth, auth.Me)
	// Logout stays outside requireAuth: revoking an absent session is a
	// success, not a 401.
	a.Post("/logout", auth.Logout)

	p := api.Group("/profile", requireAuth)
	p.Post("/update", profile.Update)
	p.Post("/avatar", profile.Avatar)

	h := api.Group("/history", requireAuth)
	h.Post("/save", history.Save)
	h.Get("/", history.List)
	h.Delete("/:id", history.Delete)

	api.Post("/analyze", requireAuth, analyze.Analyze)

	// Stored avatars are served back under the public prefix.
	app.Static(avatar.PublicPrefix, avatarDir)
}
