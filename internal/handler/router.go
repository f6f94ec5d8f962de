package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/promptgate/promptgate-go/internal/middleware"
	"github.com/promptgate/promptgate-go/internal/service"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Tokens   middleware.TokenVerifier
	TokenTTL time.Duration

	Auth     *service.AuthService
	Users    *service.UserService
	Quota    *service.QuotaService
	Usage    *service.UsageService
	Admin    *service.AdminService
	Generate *service.GenerateService

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// NewRouter wires every route. Usage is counted after the auth gate, so
// rejected requests are not tallied.
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Auth, d.TokenTTL)
	userHandler := NewUserHandler(d.Users, d.Quota, d.TokenTTL)
	genHandler := NewGenerateHandler(d.Generate)
	adminHandler := NewAdminHandler(d.Admin)

	trackUsage := middleware.TrackUsage(d.Usage)
	authenticate := middleware.Authenticate(d.Tokens)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.AuthRateLimitRPS, d.AuthRateLimitBurst))
			r.Use(trackUsage)
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.With(trackUsage).Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(trackUsage)
			r.Get("/checkUser", authHandler.HandleCheckUser)
			r.Get("/getApiCalls", userHandler.HandleGetAPICalls)
			r.Put("/update/{id}", userHandler.HandleUpdate)
			r.Post("/generate", genHandler.HandleGenerate)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)
			r.Use(trackUsage)
			r.Get("/data", adminHandler.HandleData)
			r.Delete("/delete/{id}", adminHandler.HandleDelete)
			r.Get("/resource", adminHandler.HandleResource)
		})
	})

	return r
}
