// Package http exposes the JSON API: auth endpoints, tenant-scoped resource
// CRUD and transaction reports, all wrapped in the uniform response envelope.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"xpense/internal/auth"
	"xpense/internal/middleware/security"
	"xpense/internal/middleware/trace"
	"xpense/internal/services"
	"xpense/internal/storage"
)

type Server struct {
	http.Server

	auth         *auth.Service
	accounts     *services.AccountService
	categories   *services.CategoryService
	transactions *services.TransactionService
	storage      *storage.SQLiteRepository

	traceMW *trace.Middleware
}

type Options struct {
	Addr               string
	CORSAllowedOrigins []string
}

func NewServer(opts Options, authService *auth.Service, accounts *services.AccountService, categories *services.CategoryService, transactions *services.TransactionService, repo *storage.SQLiteRepository) *Server {
	s := &Server{
		auth:         authService,
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		storage:      repo,
		traceMW:      trace.NewMiddleware(),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleWelcome)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /accounts", s.requireAuth(s.handleListAccounts))
	mux.HandleFunc("POST /accounts", s.requireAuth(s.handleCreateAccount))
	mux.HandleFunc("GET /accounts/{id}", s.requireAuth(s.handleGetAccount))
	mux.HandleFunc("PATCH /accounts/{id}", s.requireAuth(s.handleUpdateAccount))
	mux.HandleFunc("POST /accounts/delete", s.requireAuth(s.handleDeleteAccount))

	mux.HandleFunc("GET /categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("GET /categories/{id}", s.requireAuth(s.handleGetCategory))
	mux.HandleFunc("PATCH /categories/{id}", s.requireAuth(s.handleUpdateCategory))
	mux.HandleFunc("POST /categories/delete", s.requireAuth(s.handleDeleteCategory))

	mux.HandleFunc("GET /transactions", s.requireAuth(s.handleListTransactions))
	mux.HandleFunc("POST /transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions/total-expenses", s.requireAuth(s.handleTotalExpenses))
	mux.HandleFunc("GET /transactions/current-week", s.requireAuth(s.handleCurrentWeek))
	mux.HandleFunc("GET /transactions/{id}", s.requireAuth(s.handleGetTransaction))
	mux.HandleFunc("PATCH /transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	mux.HandleFunc("POST /transactions/delete", s.requireAuth(s.handleDeleteTransaction))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = headersMW.Middleware(handler)
	handler = corsHandler.Handler(handler)
	handler = s.traceMW.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"service": "xpense", "status": "running"})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.storage.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
