package handlers

import (
	"github.com/gofiber/fiber/v2"

	"guild-series-tracker/middleware"
	"guild-series-tracker/services"
)

// SetupRoutes wires every endpoint. Reads are public; anything that
// mutates state or triggers work sits behind the service token.
func SetupRoutes(
	app *fiber.App,
	ingest *services.IngestService,
	leaderboards *services.LeaderboardService,
	series *services.SeriesService,
	organizers *services.OrganizerService,
) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/organizers", organizers.ListEndpoint)
	app.Get("/organizers/:organizer/events", leaderboards.ListEventsEndpoint)
	app.Get("/organizers/:organizer/leaderboard", leaderboards.GetLeaderboardEndpoint)
	app.Get("/tournaments/:id/results", leaderboards.EventResultsEndpoint)
	app.Get("/schemes", leaderboards.ListSchemesEndpoint)

	app.Get("/series-configs", series.ListEndpoint)
	app.Get("/series-configs/:slug", series.GetEndpoint)
	app.Get("/series-configs/:slug/leaderboard", series.LeaderboardEndpoint)

	guard := middleware.RequireServiceToken()
	app.Post("/ingest/run", guard, ingest.RunIngestionEndpoint)
	app.Get("/ingest/state", guard, ingest.GetIngestState)
	app.Post("/series-configs", guard, series.SaveEndpoint)
	app.Delete("/series-configs/:slug", guard, series.DeleteEndpoint)
	app.Post("/organizers", guard, organizers.UpsertEndpoint)
	app.Patch("/organizers/:username", guard, organizers.SetActiveEndpoint)
}
