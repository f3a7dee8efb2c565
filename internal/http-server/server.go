package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"storeadmin/internal/http-server/handlers/categories"
	"storeadmin/internal/http-server/handlers/items"
	"storeadmin/internal/http-server/handlers/session"
	"storeadmin/internal/http-server/middleware"
	"storeadmin/internal/images"
)

type Server struct {
	log     *slog.Logger
	mux     *http.ServeMux
	origins []string
}

func New(log *slog.Logger, corsOrigins []string) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{log: log, mux: http.NewServeMux(), origins: corsOrigins}
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = middleware.CORS(s.origins, h)
	h = middleware.WithRequestID(h)
	h = middleware.RecoverPanic(s.log, h)
	h = middleware.AccessLog(s.log, h)
	return h
}

type Deps struct {
	Categories categories.Lister
	Creator    categories.Creator
	Items      items.Lister
	Session    session.Store
	Resolver   *images.Resolver
	// nil disables /metrics
	Metrics   http.Handler
	PerPage   int
	Timeout   time.Duration
	MaxUpload int64
}

func (s *Server) RegisterRoutes(dep Deps) {
	catOpts := categories.Options{
		Log:       s.log,
		Lister:    dep.Categories,
		Creator:   dep.Creator,
		Resolver:  dep.Resolver,
		PerPage:   dep.PerPage,
		Timeout:   dep.Timeout,
		MaxUpload: dep.MaxUpload,
	}

	s.mux.HandleFunc("/categories", categories.NewHandler(catOpts))
	s.mux.HandleFunc("/categories/{id}", categories.NewGetOneHandler(catOpts))

	s.mux.HandleFunc("/items", items.NewGetHandler(items.Options{
		Log:      s.log,
		Items:    dep.Items,
		Resolver: dep.Resolver,
		PerPage:  dep.PerPage,
		Timeout:  dep.Timeout,
	}))

	s.mux.HandleFunc("/session", session.NewHandler(s.log, dep.Session))

	if dep.Metrics != nil {
		s.mux.Handle("/metrics", dep.Metrics)
	}
}
