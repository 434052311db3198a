// Package server assembles the chi router, middleware stack, and HTTP
// lifecycle for the waitlist API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/msafer/waitlist/internal/audit"
	"github.com/msafer/waitlist/internal/database"
	"github.com/msafer/waitlist/internal/handler"
	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/metrics"
	"github.com/msafer/waitlist/internal/ratelimit"
	"github.com/msafer/waitlist/internal/session"
	"github.com/msafer/waitlist/internal/waitlist"
)

// Config carries everything the router needs beyond the services
type Config struct {
	Port           int
	AdminKey       string
	TrustedProxies []string
	Version        string
}

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer creates a new Server instance
func NewServer(cfg Config, dbPool database.Pool, waitlistService waitlist.Service, adminService waitlist.AdminService, auditService audit.Service, sessions *session.Manager, limiter *ratelimit.Limiter) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)
	r.Use(SessionMiddleware(sessions))

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(cfg.Version))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(RateLimitMiddleware(limiter, ratelimit.RouteClassAuth, cfg.TrustedProxies))
			r.Post("/nonce", handler.HandleNonce(waitlistService))
			r.Post("/signin", handler.HandleSignIn(waitlistService, sessions))
			r.Post("/logout", handler.HandleLogout(sessions))
		})

		r.Route("/waitlist", func(r chi.Router) {
			r.With(RateLimitMiddleware(limiter, ratelimit.RouteClassWrite, cfg.TrustedProxies)).
				Post("/join", handler.HandleJoin(waitlistService))
			r.With(RateLimitMiddleware(limiter, ratelimit.RouteClassRead, cfg.TrustedProxies)).
				Get("/status", handler.HandleStatus(waitlistService))
		})

		r.Route("/link", func(r chi.Router) {
			r.Use(RateLimitMiddleware(limiter, ratelimit.RouteClassWrite, cfg.TrustedProxies))
			r.Post("/farcaster", handler.HandleLinkFarcaster(waitlistService))
			r.Route("/lens", func(r chi.Router) {
				r.Post("/start", handler.HandleLensStart(waitlistService))
				r.Post("/verify", handler.HandleLensVerify(waitlistService))
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminKey, cfg.TrustedProxies))
			r.Use(RateLimitMiddleware(limiter, ratelimit.RouteClassAdmin, cfg.TrustedProxies))
			r.Post("/approve", handler.HandleAdminApprove(adminService))
			r.Post("/reject", handler.HandleAdminReject(adminService))
			r.Get("/stats", handler.HandleAdminStats(adminService))
			r.Get("/queue", handler.HandleAdminQueue(adminService))
			r.Get("/users/{id}/audit", handler.HandleAdminUserAudit(auditService))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// Handler exposes the assembled router, used by tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAdminKey) || strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug("Request headers", "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
