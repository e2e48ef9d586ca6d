// Package web is the JSON/SSE surface over the bill and claim services.
// Handlers stay thin: decode, call a service, map errors to status codes.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cheq/internal/notify"
	"cheq/internal/service"
	"cheq/internal/vision"
)

type Server struct {
	bills    *service.BillService
	claims   *service.ClaimCoordinator
	notifier *notify.Notifier
	// scanner is nil when no API key is configured; /api/scan then
	// answers 501.
	scanner       vision.ReceiptScanner
	publicBaseURL string
	mux           *http.ServeMux
	logger        *slog.Logger
}

func NewServer(bills *service.BillService, claims *service.ClaimCoordinator, notifier *notify.Notifier, scanner vision.ReceiptScanner, publicBaseURL string, logger *slog.Logger) *Server {
	s := &Server{
		bills:         bills,
		claims:        claims,
		notifier:      notifier,
		scanner:       scanner,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		mux:           http.NewServeMux(),
		logger:        logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/bills", s.handlePublishBill)
	s.mux.HandleFunc("GET /api/bills/{id}", s.handleGetBill)
	s.mux.HandleFunc("POST /api/bills/{id}/claims", s.handleCommitClaims)
	s.mux.HandleFunc("GET /api/bills/{id}/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/bills/{id}/settlement", s.handleSettlement)
	s.mux.HandleFunc("GET /api/bills/{id}/qr", s.handleShareQR)
	s.mux.HandleFunc("POST /api/scan", s.handleScanReceipt)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// corsHeaders allows browser clients served from another origin to call
// the API. Guests arrive from a shared link, so the surface is open.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so SSE streaming keeps working
// behind the logging wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, corsHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s,
		ReadTimeout: 60 * time.Second,
		// No WriteTimeout: the events stream is long-lived and a fixed
		// deadline would sever every subscriber.
		IdleTimeout: 120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
