// Package server assembles the chi router of the relay.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/app/handler"
	"github.com/atinyakov/go-file-relay/internal/app/service"
	"github.com/atinyakov/go-file-relay/internal/middleware"
)

type Options struct {
	Page handler.PageOptions

	// TrustedSubnet guards /api/internal. Empty closes it.
	TrustedSubnet string

	// LevelHandler, when set, is mounted at /api/internal/log-level.
	LevelHandler http.Handler
}

func Init(svc service.RelayServiceIface, logger *zap.Logger, opts Options) *chi.Mux {
	get := handler.NewGet(svc, logger, opts.Page)
	post := handler.NewPost(svc, logger, opts.Page)
	sweep := handler.NewSweep(svc, logger)

	r := chi.NewRouter()
	r.Use(
		middleware.WithRequestLogging(logger),
		middleware.WithMetrics(),
		otelhttp.NewMiddleware("relay-http"),
	)

	r.With(middleware.WithGZIPGet).Get("/", get.Index)
	r.Post("/", post.Upload)
	r.Post("/download", post.Download)

	r.Get("/ping", get.PingStore)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.WithGZIPPost).Post("/files", post.Publish)
		r.With(middleware.WithGZIPPost).Post("/files/redeem", post.RedeemJSON)
		r.Get("/files/{code}", get.ByCode)

		r.Route("/internal", func(r chi.Router) {
			r.Use(middleware.WithSubnet(opts.TrustedSubnet))

			r.Get("/stats", get.Stats)
			r.Post("/sweep", sweep.Sweep)
			if opts.LevelHandler != nil {
				r.Handle("/log-level", opts.LevelHandler)
			}
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
