package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *http.Server
	opts       Options
}

// Options controls the middleware applied around the router. An empty
// CORSOrigins disables CORS handling; a nil AccessLog disables access logs.
type Options struct {
	CORSOrigins []string
	AccessLog   io.Writer
}

// Extracted constants to avoid magic numbers and centralize tuning knobs.
const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	// uploads run a synchronous image analysis that may take up to a minute
	writeTimeout = 90 * time.Second
	idleTimeout  = 60 * time.Second
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{"Content-Type", "Authorization"}
)

// New returns a server that applies opts around every handler it runs.
func New(opts Options) *Server {
	return &Server{opts: opts}
}

// newHTTPServer builds a configured *http.Server for the given address and handler.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// normalizeAddr ensures the provided port is a valid address (accepts "8080" or ":8080").
func normalizeAddr(port string) string {
	if port == "" {
		return ""
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// wrap applies CORS inside the access logger so rejected preflights are logged too.
func (s *Server) wrap(handler http.Handler) http.Handler {
	if len(s.opts.CORSOrigins) > 0 {
		handler = gorillaHandlers.CORS(
			gorillaHandlers.AllowedOrigins(s.opts.CORSOrigins),
			gorillaHandlers.AllowedMethods(corsMethods),
			gorillaHandlers.AllowedHeaders(corsHeaders),
		)(handler)
	}
	if s.opts.AccessLog != nil {
		handler = gorillaHandlers.CombinedLoggingHandler(s.opts.AccessLog, handler)
	}
	return handler
}

// Run starts the HTTP server on the given port using the provided handler.
func (s *Server) Run(port string, handler http.Handler) error {
	s.httpServer = newHTTPServer(normalizeAddr(port), s.wrap(handler))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
