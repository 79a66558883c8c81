// Package httpserver exposes the gateway's HTTP surface: login and
// callback, logout, gated report-page dispatch, navigation, health,
// and metrics.
package httpserver

import (
	"context"
	"crypto/tls"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/autogeral/dashboard-sso/internal/access"
	"github.com/autogeral/dashboard-sso/internal/config"
	"github.com/autogeral/dashboard-sso/internal/login"
	"github.com/autogeral/dashboard-sso/internal/metrics"
	"github.com/autogeral/dashboard-sso/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the HTTP server for the dashboard gateway.
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	mux        *http.ServeMux
	templates  *template.Template
	controller *login.Controller
	sessionMgr *session.Manager
	table      *access.Table
	metrics    *metrics.Metrics
}

// NewServer creates a new HTTP server. metricsHandler serves GET /metrics
// (typically promhttp over the process registry).
func NewServer(cfg *config.Config, controller *login.Controller, sessionMgr *session.Manager,
	table *access.Table, m *metrics.Metrics, metricsHandler http.Handler) (*Server, error) {

	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		mux:        http.NewServeMux(),
		templates:  templates,
		controller: controller,
		sessionMgr: sessionMgr,
		table:      table,
		metrics:    m,
	}

	// Register routes. "/" is both the landing page and the OAuth2
	// callback target: the presence of a ?code= parameter is the signal.
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/pages/", s.handlePage)
	s.mux.HandleFunc("/health", s.handleHealth)
	if metricsHandler != nil {
		s.mux.Handle("/metrics", metricsHandler)
	}

	// Wrap with middleware
	handler := loggingMiddleware(s.mux)
	handler = recoveryMiddleware(handler)
	handler = rateLimitMiddleware(handler)
	handler = securityHeadersMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:         cfg.Listen.HTTP,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.TLS.Enabled {
		s.httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			CipherSuites: []uint16{
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			},
		}
	}

	return s, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting HTTP server",
		"addr", s.cfg.Listen.HTTP,
		"tls", s.cfg.TLS.Enabled,
	)

	if s.cfg.TLS.Enabled {
		return s.httpServer.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
