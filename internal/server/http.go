package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/certquiz/internal/config"
	"github.com/gokatarajesh/certquiz/internal/logging"
	"github.com/gokatarajesh/certquiz/internal/quiz"
	httperrors "github.com/gokatarajesh/certquiz/pkg/http/errors"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RouterOptions collects what the router serves.
type RouterOptions struct {
	CORS    config.CORS
	Turns   *TurnHandler
	Rules   quiz.Rules
	Metrics http.Handler // nil disables /metrics
	Logger  zerolog.Logger
}

// NewRouter wires health, metrics, catalogue and turn routes.
func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORS.AllowedOrigins,
		AllowedMethods:   withGet(opts.CORS.AllowedMethods),
		AllowedHeaders:   opts.CORS.AllowedHeaders,
		AllowCredentials: opts.CORS.AllowCredentials,
		MaxAge:           opts.CORS.MaxAge,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Method(http.MethodPost, "/quiz", opts.Turns)
	r.Route("/v1/quiz", func(qr chi.Router) {
		qr.Method(http.MethodPost, "/turn", opts.Turns)
		qr.Get("/profiles", CatalogueHandler(opts.Rules))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondMethodNotAllowed(w)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondError(w, http.StatusNotFound, httperrors.ErrCodeInvalidRequest, "route not found")
	})

	return r
}

// NewHTTPServer wraps the router in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, opts RouterOptions) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
		// Turns can make three sequential model calls.
		WriteTimeout: 3*cfg.LLM.Timeout + 10*time.Second,
	}
}

// requestLogger tags each request with an id, stores a request-scoped
// logger in the context and logs the outcome.
func requestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			logger := base.With().Str("request_id", id).Logger()
			ctx := logging.IntoContext(r.Context(), logger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt := logger.Info()
			if status >= http.StatusInternalServerError {
				evt = logger.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(start)).
				Msg("http request")
		})
	}
}

// withGet makes sure catalogue reads pass CORS even when only the turn
// methods are configured.
func withGet(methods []string) []string {
	for _, m := range methods {
		if m == http.MethodGet {
			return methods
		}
	}
	return append(append([]string{}, methods...), http.MethodGet)
}
