// Package web serves the calculator over HTTP and WebSocket.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/codefionn/yardcalc/internal/calc"
	"github.com/codefionn/yardcalc/internal/config"
	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/codefionn/yardcalc/internal/pidfile"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/net/netutil"
)

// Server represents the web server
type Server struct {
	cfg        config.ServerConfig
	engine     *calc.Engine
	router     *httprouter.Router
	hub        *Hub
	httpServer *http.Server
	listener   net.Listener
	pid        *pidfile.Pidfile
	log        *logger.Logger
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	serveWG sync.WaitGroup
}

// NewServer creates a new web server evaluating with engine
func NewServer(cfg config.ServerConfig, engine *calc.Engine) *Server {
	if cfg.Addr == "" {
		cfg.Addr = consts.DefaultServerAddr
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = consts.DefaultMaxConnections
	}
	if engine == nil {
		engine = calc.New(calc.Options{})
	}

	s := &Server{
		cfg:    cfg,
		engine: engine,
		router: httprouter.New(),
		hub:    NewHub(),
		log:    logger.Global().WithPrefix("web"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  consts.BufferSize1KB,
			WriteBufferSize: consts.BufferSize1KB,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	if cfg.PidFile != "" {
		s.pid = pidfile.New(cfg.PidFile)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	s.router.GET("/api/compute", s.handleComputeQuery)
	s.router.POST("/api/compute", s.handleCompute)
	s.router.POST("/api/explain", s.handleExplain)

	s.router.GET("/ws", s.handleWebSocket)
}

// Handler returns the HTTP handler without starting a listener
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Addr, err)
	}
	s.listener = netutil.LimitListener(ln, s.cfg.MaxConnections)

	if s.pid != nil {
		if err := s.pid.Write(); err != nil {
			ln.Close()
			return err
		}
	}

	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
		ErrorLog:     logger.NewStdLogger(s.log, slog.LevelWarn),
	}

	s.serveWG.Add(1)
	go func() {
		defer s.serveWG.Done()
		s.log.Info("Web server listening on %s", s.listener.Addr())
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Stop stops the web server
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	s.log.Info("Stopping web server...")

	// hijacked websocket connections are not tracked by Shutdown
	s.hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), consts.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
	}
	s.serveWG.Wait()

	if s.pid != nil {
		if err := s.pid.Remove(); err != nil {
			errs = append(errs, err)
		}
	}
	s.httpServer = nil
	return errors.Join(errs...)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleComputeQuery(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	expr := r.URL.Query().Get("expr")
	if expr == "" {
		writeJSON(w, http.StatusBadRequest, ComputeResponse{Error: "missing expr parameter", Kind: "bad_request"})
		return
	}
	s.respondCompute(w, expr)
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	s.respondCompute(w, req.Expression)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	resp := newExplainResponse(s.engine.Explain(req.Expression))
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) respondCompute(w http.ResponseWriter, expr string) {
	value, err := s.engine.Compute(expr)
	resp := newComputeResponse(expr, value, err)
	if err != nil {
		s.log.Debug("Rejected %q: %v", expr, err)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (ComputeRequest, bool) {
	var req ComputeRequest
	body := http.MaxBytesReader(w, r.Body, consts.MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		} else if errors.Is(err, io.EOF) {
			err = errors.New("empty request body")
		}
		writeJSON(w, status, ComputeResponse{Error: err.Error(), Kind: "bad_request"})
		return req, false
	}
	return req, true
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Failed to upgrade WebSocket: %v", err)
		return
	}

	client := NewClient(s.hub, conn, s.engine)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}
