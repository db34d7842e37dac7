package routes

import (
	"net/http"

	"github.com/Dosada05/pingpong-tournament/handlers"
	"github.com/Dosada05/pingpong-tournament/middleware"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret       []byte
	AllowedOrigins  []string
	ResultRateLimit float64
	ResultRateBurst int
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(services.RoleOrganizer))
	}
	limitResults := middleware.RateLimit(opts.ResultRateLimit, opts.ResultRateBurst)

	router.Get("/health", handlers.HealthCheck)
	router.Post("/auth/token", authHandler.IssueToken)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournaments)
		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Post("/", tournamentHandler.CreateTournament)
		})

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetTournament)
			r.Get("/champion", tournamentHandler.GetChampion)

			r.Get("/groups", tournamentHandler.ListGroups)
			r.Get("/groups/{groupName}", tournamentHandler.GetGroup)
			r.Get("/groups/{groupName}/standings", tournamentHandler.GetGroupStandings)

			r.Get("/knockout", tournamentHandler.GetBracket)

			r.Group(func(r chi.Router) {
				organizerOnly(r)
				r.Post("/knockout", tournamentHandler.StartKnockout)

				r.With(limitResults).Post("/groups/{groupName}/results", tournamentHandler.RecordGroupResult)
				r.With(limitResults).Post("/knockout/rounds/{round}/matches/{match}/result", tournamentHandler.RecordKnockoutResult)
			})
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
