package landing

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ValentinKolb/rediDB/lib/util"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("web")

//go:embed views/default.html
var defaultPage []byte

// Server serves the landing page and the metrics of the process
type Server struct {
	srv *http.Server
}

// NewServer creates the landing page server for the given address.
// Requests are logged at debug level.
func NewServer(endpoint string) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", loggerMiddleware(handleIndex))
	mux.HandleFunc("GET /metrics", loggerMiddleware(handleMetrics))

	return &Server{
		srv: &http.Server{
			Addr:              endpoint,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the http handler, e.g. for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe serves until Shutdown is called. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	Logger.Infof("Started landing page on %s", listener.Addr())
	err = s.srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting for running requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// --------------------------------------------------------------------------
// Handler
// --------------------------------------------------------------------------

func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(defaultPage); err != nil {
		Logger.Debugf("failed to write landing page: %v", err)
	}
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	util.WritePrometheus(w)
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	}
}
