package routes

import (
	"net/http"

	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret          []byte
	CORSAllowedOrigins []string
	// ResultLimiter throttles result submissions per client IP. Nil disables it.
	ResultLimiter  *middleware.IPRateLimiter
	MetricsHandler http.Handler
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.RequireRole(middleware.RoleOrganizer, middleware.RoleAdmin))
	}

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if opts.MetricsHandler != nil {
		router.Handle("/metrics", opts.MetricsHandler)
	}
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)

		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Post("/", tournamentHandler.CreateHandler)
		})

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Get("/bracket", tournamentHandler.GetBracketHandler)
			r.Get("/bracket/current", tournamentHandler.CurrentMatchesHandler)
			r.Get("/standings", tournamentHandler.StandingsHandler)

			r.Group(func(r chi.Router) {
				organizerOnly(r)

				r.Post("/participants", participantHandler.Register)
				r.Patch("/participants/{participantID}", participantHandler.UpdateStatus)
				r.Post("/bracket", tournamentHandler.GenerateBracketHandler)
				r.Post("/matches/{matchID}/bye", matchHandler.AdvanceBye)
				r.With(middleware.RateLimit(opts.ResultLimiter)).
					Post("/matches/{matchID}/result", matchHandler.ReportResult)
			})
		})
	})
}
