// Package web implements the stencil upload service: an HTML form for
// the fabrication drawings and conversion settings, returning the
// rendered STL mesh as a download.
package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stencilgen/stencilgen/scad"
)

// Server holds the handler dependencies. Construct with New.
type Server struct {
	logger *log.Logger
	engine *scad.Engine
	tmpl   *template.Template
}

// New builds a server logging through logger and rendering meshes
// through the given engine. A nil engine resolves openscad from the
// environment.
func New(logger *log.Logger, engine *scad.Engine) *Server {
	if engine == nil {
		engine = scad.NewEngine()
	}
	return &Server{
		logger: logger,
		engine: engine,
		tmpl:   template.Must(template.New("form").Parse(formTemplate)),
	}
}

// Router returns the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleForm)
	r.Post("/", s.handleConvert)
	return r
}

// logRequests logs one line per request through the server's logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, req)
		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"reqid", middleware.GetReqID(req.Context()),
		)
	})
}
