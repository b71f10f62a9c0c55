package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/poker-club/docs" // регистрирует swagger-спецификацию
	"github.com/Dosada05/poker-club/handlers"
	"github.com/Dosada05/poker-club/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Tournament *handlers.TournamentHandler
	Ledger     *handlers.LedgerHandler
	Ranking    *handlers.RankingHandler
	Admin      *handlers.AdminHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret   []byte
	CORSOrigins []string
	// Accounts проверяется на каждом аутентифицированном запросе.
	Accounts middleware.AccountLookup
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Accounts)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/login", h.Auth.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		// Публичные маршруты для просмотра турниров
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{name}", h.Tournament.GetByNameHandler)
		r.Get("/{name}/history", h.Tournament.HistoryHandler)
		r.Get("/{name}/ledger", h.Ledger.GetLedgerHandler)
		r.Get("/{name}/remaining", h.Ledger.RemainingHandler)
		r.Get("/{name}/standings", h.Ledger.StandingsHandler)

		// Изменения только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Post("/", h.Tournament.CreateHandler)
			r.Post("/{name}/eliminations", h.Ledger.RecordEliminationHandler)
		})
	})

	router.Route("/ranking", func(r chi.Router) {
		r.Get("/", h.Ranking.GetHandler)
		r.With(authenticate, middleware.RequireAdmin).Post("/import", h.Ranking.ImportHandler)
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireAdmin)

		r.Get("/", h.Users.ListUsers)
		r.Post("/", h.Users.CreateUser)
		r.Patch("/{username}/suspension", h.Users.SetSuspension)
		r.Delete("/{username}", h.Users.DeleteUser)
	})

	router.With(authenticate, middleware.RequireAdmin).Post("/admin/snapshots", h.Admin.Snapshot)

	router.Get("/ws/tournaments/{name}", h.WebSocket.ServeWs)
}
