package app

import (
	"context"
	middle "healthwatch/internals/middleware"
	"healthwatch/internals/modules/address"
	"healthwatch/internals/modules/user"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.Logger(c.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: c.Cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(c.Cfg.HTTP.RequestTimeout))

	r.Get("/healthz", Healthz(map[string]Pinger{
		"postgres": c.DB,
		"redis":    c.RedisClient,
	}))

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/users", user.Routes(c.userHandler, c.authMW))
		v1.Mount("/addresses", address.Routes(c.addressHandler, c.authMW))
	})

	return r
}

// Healthz answers 200 when every dependency responds to a ping.
func Healthz(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(deps))
		healthy := true
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				status[name] = "down"
				healthy = false
				continue
			}
			status[name] = "up"
		}

		if !healthy {
			utils.FromAppError(w, reqID, &apperror.Error{
				Kind:    apperror.Dependency,
				Op:      "handler.app.healthz",
				Message: "dependency unavailable",
				Fields:  status,
			})
			return
		}
		utils.WriteJSON(w, http.StatusOK, reqID, "ok", status)
	}
}
