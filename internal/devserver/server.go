// Package devserver is an in-memory implementation of the chat backend's
// REST API. It backs local development and the client integration tests.
package devserver

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	roleUser      = "user"
	roleAssistant = "ai"
)

type Server struct {
	cfg     Config
	store   *Store
	replier Replier
	log     logging.Logger
	now     func() time.Time
	newCode func() (string, error)
}

type Option func(*Server)

func WithReplier(r Replier) Option {
	return func(s *Server) { s.replier = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithCodeGenerator replaces the random reset code source.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Server) { s.newCode = gen }
}

func NewServer(cfg Config, store *Store, log logging.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		replier: EchoReplier{},
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
		newCode: randomCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Router builds the HTTP handler. The API lives under /api; GET / is a
// liveness probe.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/forgot-password", s.handleForgotPassword)
		r.Post("/auth/verify-reset-code", s.handleVerifyResetCode)
		r.Post("/auth/reset-password", s.handleResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/auth/me", s.handleMe)
			r.Post("/chat", s.handleChat)
			r.Get("/chat/history", s.handleHistory)
			r.Get("/chat/conversations", s.handleConversations)
			r.Get("/chat/conversations/{id}/messages", s.handleConversationMessages)
		})
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "devserver listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
