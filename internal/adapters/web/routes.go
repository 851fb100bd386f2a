package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, h *Handlers, rateLimiter *RateLimiter) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Get("/tiers", h.Tiers)
	api.Get("/dashboard", h.Dashboard)

	// Starting a hunt and paying for one are rate limited per IP.
	api.Post("/hunts", rateLimiter.Middleware(), h.StartHunt)
	api.Post("/checkout/:handle", rateLimiter.Middleware(), h.Checkout)

	hunt := api.Group("/hunts/:id")
	hunt.Get("/progress", h.Progress)
	hunt.Delete("/", h.CancelHunt)
	hunt.Get("/results", h.Results)
	hunt.Post("/selection/toggle/:profileID", h.ToggleProfile)
	hunt.Post("/selection/page", h.TogglePage)
	hunt.Post("/selection/high-scorers", h.SelectHighScorers)
	hunt.Post("/bag", h.Bag)
	hunt.Get("/export", h.Export)

	api.Get("/exports/:token", h.Download)

	trophies := api.Group("/trophy-room")
	trophies.Get("/", h.TrophyRoom)
	trophies.Delete("/", h.RemoveTrophies)
	trophies.Post("/lists", h.CreateList)
	trophies.Post("/lists/:id/profiles", h.AddToList)
	trophies.Delete("/lists/:id", h.DeleteList)
	trophies.Put("/active-list", h.SetActiveList)
}
