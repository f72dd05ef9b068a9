package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/colorgraph/pkg/render"
)

// Defaults for a new Server.
const (
	DefaultAddr        = ":8080"
	DefaultSyncTimeout = 5 * time.Second
	DefaultMaxNodes    = 2000
	shutdownTimeout    = 5 * time.Second
)

// changeHandler names the renderer change handler the server installs.
const changeHandler = "server-events"

// Server serves one renderer over HTTP.
type Server struct {
	renderer *render.Renderer[int]
	logger   *log.Logger
	events   *Hub
	router   chi.Router
	timeout  time.Duration
	maxNodes int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests and events.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSyncTimeout bounds how long a request waits for its intent to apply.
func WithSyncTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxNodes caps the node count of generated graphs. Generation runs on
// the simulation worker and stalls the frame loop while it does.
func WithMaxNodes(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxNodes = n
		}
	}
}

// New returns a server over r and subscribes to its changes.
func New(r *render.Renderer[int], opts ...Option) *Server {
	s := &Server{
		renderer: r,
		logger:   log.Default(),
		timeout:  DefaultSyncTimeout,
		maxNodes: DefaultMaxNodes,
	}
	for _, o := range opts {
		o(s)
	}
	s.events = NewHub(s.logger)
	s.router = s.routes()

	r.OnChange(changeHandler, func() {
		s.events.Broadcast(Event{Type: "change", Data: r.Snapshot()})
	})
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Events returns the event hub.
func (s *Server) Events() *Hub { return s.events }

// Close detaches the server from the renderer.
func (s *Server) Close() {
	s.renderer.RemoveChangeHandler(changeHandler)
}

// ListenAndServe runs the event hub and an HTTP server on addr until ctx is
// done, then shuts the HTTP server down gracefully. The renderer is not
// started; run it alongside.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.events.Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/version", s.version)
	r.Get("/events", s.events.ServeHTTP)

	r.Route("/graph", func(r chi.Router) {
		r.Get("/", s.getGraph)
		r.Delete("/", s.clearGraph)
		r.Get("/export/{format}", s.exportGraph)
		r.Post("/generate", s.generateGraph)
		r.Post("/reset", s.resetGraph)
		r.Post("/color", s.colorGraph)
	})

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", s.createNode)
		r.Delete("/{id}", s.removeNode)
		r.Post("/{id}/drag", s.dragNode)
		r.Post("/{id}/release", s.releaseNode)
	})

	r.Post("/edges", s.connectNodes)
	r.Delete("/edges/{from}/{to}", s.disconnectNodes)

	r.Put("/selection", s.selectNode)
	r.Delete("/selection", s.clearSelection)

	r.Put("/canvas", s.resizeCanvas)
	r.Put("/simulation", s.setSimulation)

	return r
}

// requestID tags each request with an id, reusing the client's X-Request-ID
// if it sent one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
