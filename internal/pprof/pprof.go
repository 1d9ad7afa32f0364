// Package pprof wires runtime profiling into the command line: a
// net/http/pprof listener and CPU or heap profiles written to files.
package pprof

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	netpprof "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sync"

	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/codefionn/yardcalc/internal/logger"
)

// Config holds the pprof configuration
type Config struct {
	HTTPAddr    string // e.g. "localhost:6060"
	CPUProfile  string // written while the command runs
	HeapProfile string // written when profiling stops
}

// Enabled reports whether any profiling was requested
func (c Config) Enabled() bool {
	return c.HTTPAddr != "" || c.CPUProfile != "" || c.HeapProfile != ""
}

// Handler manages pprof profiling
type Handler struct {
	config   Config
	server   *http.Server
	listener net.Listener
	cpuFile  *os.File
	log      *logger.Logger

	mu       sync.Mutex
	started  bool
	stopping bool
}

// NewHandler creates a new pprof handler with the given configuration
func NewHandler(config Config) *Handler {
	return &Handler{
		config: config,
		log:    logger.Global().WithPrefix("pprof"),
	}
}

// Start begins profiling based on the configuration
func (h *Handler) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return errors.New("profiling already started")
	}

	if h.config.CPUProfile != "" {
		f, err := createProfileFile(h.config.CPUProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start CPU profiling: %w", err)
		}
		h.cpuFile = f
		h.log.Debug("CPU profile: %s", h.config.CPUProfile)
	}

	if h.config.HTTPAddr != "" {
		ln, err := net.Listen("tcp", h.config.HTTPAddr)
		if err != nil {
			h.stopCPU()
			return fmt.Errorf("failed to bind pprof HTTP server: %w", err)
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/debug/pprof/", netpprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", netpprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", netpprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", netpprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", netpprof.Trace)

		srv := &http.Server{Handler: mux}
		h.listener = ln
		h.server = srv

		go func() {
			h.log.Info("pprof listening on %s", ln.Addr())
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				h.log.Error("pprof server error: %v", err)
			}
		}()
	}

	h.started = true
	return nil
}

// Addr returns the bound pprof address, empty when no listener runs
func (h *Handler) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Stop stops profiling and writes profile files
func (h *Handler) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started || h.stopping {
		return nil
	}
	h.stopping = true

	var errs []error
	if err := h.stopCPU(); err != nil {
		errs = append(errs, err)
	}

	if h.config.HeapProfile != "" {
		if err := writeHeapProfile(h.config.HeapProfile); err != nil {
			errs = append(errs, err)
		} else {
			h.log.Debug("Heap profile written to %s", h.config.HeapProfile)
		}
	}

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), consts.ShutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown pprof server: %w", err))
		}
		h.server = nil
		h.listener = nil
	}

	return errors.Join(errs...)
}

func (h *Handler) stopCPU() error {
	if h.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := h.cpuFile.Close()
	h.cpuFile = nil
	if err != nil {
		return fmt.Errorf("failed to close CPU profile: %w", err)
	}
	return nil
}

func createProfileFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile file: %w", err)
	}
	return f, nil
}

func writeHeapProfile(path string) error {
	f, err := createProfileFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// up-to-date statistics
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write heap profile: %w", err)
	}
	return nil
}
