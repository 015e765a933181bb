package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"lumina/internal/log"
	"lumina/internal/services"
)

// mutatingRequestsPerMinute caps writes per client.
const mutatingRequestsPerMinute = 120

type Server struct {
	http.Server
	finance     *services.Finance
	logger      *log.Logger
	structured  *log.StructuredLogger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shuttingDown bool
	mu           sync.RWMutex
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, fin *services.Finance, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		finance:     fin,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(mutatingRequestsPerMinute),
		metrics:     &securityMetrics{},
	}
	s.structured = log.NewStructuredLogger(s.logger)
	s.Handler = log.Middleware(s.logger)(log.RequestIDMiddleware(requestID)(mux))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/profile", s.withSecurityHeaders(s.handleGetProfile))
	mux.HandleFunc("PATCH /api/profile", s.withSecurityHeaders(s.handleUpdateProfile))
	mux.HandleFunc("POST /api/profile/theme", s.withSecurityHeaders(s.handleToggleTheme))
	mux.HandleFunc("POST /api/onboarding", s.withSecurityHeaders(s.handleOnboarding))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.withSecurityHeaders(s.handleGetTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/breakdown", s.withSecurityHeaders(s.handleBreakdown))
	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("GET /api/currencies", s.withSecurityHeaders(s.handleCurrencies))
	mux.HandleFunc("POST /api/reset", s.withSecurityHeaders(s.handleReset))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.shuttingDown = true
		s.mu.Unlock()

		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}

		counters := s.metrics.snapshot()
		s.logger.WithComponent(log.ComponentSecurity).Info("Security counters at shutdown",
			"rate_limit_hits", counters["rate_limit_hits"],
			"suspicious_requests", counters["suspicious_requests"])

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, a request ID and
// request logging to a handler.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		ctx := r.Context()
		secLogger := log.FromContext(ctx).WithComponent(log.ComponentSecurity)
		clientFields := log.NewFields().WithClientIP(clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			secLogger.WarnContext(ctx, "Suspicious request", clientFields.
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()).
				ToSlice()...)
		}

		w.Header().Set(requestIDHeader, r.Header.Get(requestIDHeader))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		if r.Method != http.MethodGet && r.Method != http.MethodHead &&
			!s.rateLimiter.allow(clientIP, s.metrics) {
			secLogger.WarnContext(ctx, "Rate limit exceeded", clientFields.ToSlice()...)
			TooManyRequestsError().Write(rw)
		} else {
			r.Body = http.MaxBytesReader(rw, r.Body, maxBodyBytes)
			next(rw, r)
		}

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	down := s.shuttingDown
	s.mu.RUnlock()

	if down || s.finance == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
