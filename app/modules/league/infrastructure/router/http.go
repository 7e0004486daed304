package leaguerouter

import (
	"net/http"

	leaguehandlers "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// MountHTTP registers the league API under /api/leagues. middlewares run
// before every league route.
func MountHTTP(r chi.Router, h *leaguehandlers.LeagueHandlers, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/api/leagues", func(r chi.Router) {
		r.Use(middlewares...)

		r.Post("/", h.HandleCreateLeague)
		r.Post("/join", h.HandleJoinLeague)

		r.Route("/{leagueID}", func(r chi.Router) {
			r.Get("/", h.HandleGetLeague)
			r.Get("/participants", h.HandleListParticipants)
			r.Post("/participants/{participantID}/eliminate", h.HandleEliminateParticipant)
			r.Get("/selections/mine", h.HandleListMySelections)
			r.Post("/notifications", h.HandleSendNotification)
			r.Get("/winners", h.HandleListWinners)
			r.Get("/standings", h.HandleGetStandings)
			r.Get("/standings.xlsx", h.HandleStandingsWorkbook)
			r.Get("/survival.png", h.HandleSurvivalChart)

			r.Get("/rounds", h.HandleListRounds)
			r.Post("/rounds", h.HandleCreateRound)

			r.Route("/rounds/{roundID}", func(r chi.Router) {
				r.Post("/lock", h.HandleLockRound)
				r.Post("/validate", h.HandleValidateRound)

				r.Get("/fixtures", h.HandleListFixtures)
				r.Post("/fixtures", h.HandleCreateFixture)
				r.Put("/fixtures/{fixtureID}", h.HandleRecordFixtureResult)

				r.Get("/selections", h.HandleListSelections)
				r.Post("/selections", h.HandleCreateSelection)
				r.Post("/selections/{selectionID}/override", h.HandleOverrideSelection)

				r.Delete("/overrides/{overrideID}", h.HandleReverseOverride)
			})
		})
	})
}
