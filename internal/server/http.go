package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server for the web interface.
type Server struct {
	httpServer *http.Server
	handler    *Handlers
	staticDir  string
	log        *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(addr string, handler *Handlers, staticDir string, log *zap.Logger) *Server {
	s := &Server{
		handler:   handler,
		staticDir: staticDir,
		log:       log,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) setupRoutes(mux *http.ServeMux) {
	// API routes
	mux.HandleFunc("/api/simulate", s.handler.HandleSimulate)
	mux.HandleFunc("/api/ber", s.handler.HandleBER)
	mux.HandleFunc("/api/constellation", s.handler.HandleConstellation)
	mux.HandleFunc("/api/spectrum", s.handler.HandleSpectrum)
	mux.HandleFunc("/api/schemes", s.handler.HandleSchemes)
	mux.HandleFunc("/api/status", s.handler.HandleStatus)
	mux.HandleFunc("/api/devices", s.handler.HandleDevices)
	mux.HandleFunc("/api/play", s.handler.HandlePlay)

	// WebSocket
	mux.HandleFunc("/ws", s.handler.HandleWebSocket)

	// Prometheus
	mux.Handle("/metrics", promhttp.Handler())

	// Static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
