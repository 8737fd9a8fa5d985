// Package server exposes the reflection API over HTTP.
//
// Routes:
//
//	GET /v1/schemas              list schemas
//	GET /v1/tables?schema=s      list tables and views in a schema
//	GET /v1/tables/{table}       full description of one table
//	GET /healthz                 liveness probe
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leonardovida/duckdb-reflect/internal/logger"
	"github.com/leonardovida/duckdb-reflect/internal/schema"
)

// Reflector is the slice of the inspector the HTTP layer uses. Narrowed to
// an interface so handlers are testable without a database.
type Reflector interface {
	GetSchemaNames(ctx context.Context) ([]string, error)
	GetTableNames(ctx context.Context, schemaName string) ([]string, error)
	GetViewNames(ctx context.Context, schemaName string) ([]string, error)
	GetColumns(ctx context.Context, table, schemaName string) ([]schema.ColumnRecord, error)
	GetPrimaryKeys(ctx context.Context, table, schemaName string) ([]schema.PrimaryKey, error)
	GetForeignKeys(ctx context.Context, table, schemaName string) ([]schema.ForeignKey, error)
	GetUniqueConstraints(ctx context.Context, table, schemaName string) ([]schema.UniqueConstraint, error)
	GetCheckConstraints(ctx context.Context, table, schemaName string) ([]schema.CheckConstraint, error)
	GetIndexes(ctx context.Context, table, schemaName string) ([]schema.IndexRecord, error)
}

// Server serves the reflection API.
type Server struct {
	reflector Reflector
	log       *logger.Logger
	router    chi.Router
}

// New builds a Server around reflector.
func New(reflector Reflector, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New(nil)
	}
	s := &Server{
		reflector: reflector,
		log:       log.With().Str("component", "server").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schemas", s.handleSchemas)
		r.Get("/tables", s.handleTables)
		r.Get("/tables/{table}", s.handleTableDetail)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler, exposed for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the API on addr until ctx is cancelled,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.With().Str("addr", addr).Logger().Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Event().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
