// Package webserver hosts the dashboard: static UI assets, a small JSON
// API, and the WebSocket endpoint every viewer connects to.
package webserver

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"swarmview/internal/broadcast"
	"swarmview/internal/debug"
	"swarmview/internal/emitter"
	"swarmview/internal/registry"
)

//go:embed static
var staticFS embed.FS

// DefaultPort is used when no port is configured.
const DefaultPort = 4004

// Options configures web server behavior.
type Options struct {
	Host string
	Port int
}

// Server bridges the emitter's broadcast stream to WebSocket viewers.
type Server struct {
	em         *emitter.Emitter
	reg        *registry.Registry
	bcast      *broadcast.Broadcaster
	httpServer *http.Server
	host       string
	port       int
}

// New constructs a server over an emitter, the registry it tracks agents
// in, and the broadcaster it publishes to.
func New(em *emitter.Emitter, reg *registry.Registry, bcast *broadcast.Broadcaster, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "127.0.0.1"
	}

	port := opts.Port
	if port <= 0 {
		port = DefaultPort
	}

	srv := &Server{
		em:    em,
		reg:   reg,
		bcast: bcast,
		host:  host,
		port:  port,
	}

	mux := http.NewServeMux()
	srv.setupRoutes(mux)

	srv.httpServer = &http.Server{
		Addr:              srv.Addr(),
		Handler:           corsMiddleware(logMiddleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv
}

// Start starts the server in a background goroutine and returns immediately.
func (srv *Server) Start() error {
	if srv.httpServer == nil {
		return fmt.Errorf("webserver not initialized")
	}

	ln, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return err
	}

	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		srv.port = tcpAddr.Port
		srv.httpServer.Addr = srv.Addr()
	}

	go func() {
		if err := srv.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			debug.LogKV("webserver", "server stopped with error", "error", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (srv *Server) Shutdown(ctx context.Context) error {
	if srv.httpServer == nil {
		return nil
	}
	return srv.httpServer.Shutdown(ctx)
}

// Addr returns the bound host:port address.
func (srv *Server) Addr() string {
	return net.JoinHostPort(srv.host, strconv.Itoa(srv.port))
}

// URL returns the browsable address of the dashboard.
func (srv *Server) URL() string {
	return "http://" + srv.Addr()
}

// WebSocketURL returns the address viewers dial.
func (srv *Server) WebSocketURL() string {
	return "ws://" + srv.Addr() + "/ws"
}

func (srv *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", srv.handleHealth)
	mux.HandleFunc("GET /api/agents", srv.handleAgents)

	// Catch-all for unknown API routes
	mux.HandleFunc("GET /api/{rest...}", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	mux.HandleFunc("GET /ws", srv.handleWebSocket)

	// Static files
	staticHandler := http.FileServer(http.FS(staticFS))
	mux.Handle("GET /static/", staticHandler)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "failed to load index", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	})
}
