package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
}

// Options tunes the underlying http.Server. Zero values leave the
// net/http defaults in place.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler, opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
		},
	}
}

// Serve accepts connections on ln. It returns nil after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ListenUnix listens on a Unix socket at path, replacing a stale socket
// file left by a previous run. The socket is readable by the owner only.
func ListenUnix(path string) (net.Listener, error) {
	if fi, err := os.Lstat(path); err == nil {
		if fi.Mode()&os.ModeSocket == 0 {
			return nil, &net.OpError{Op: "listen", Net: "unix", Err: errors.New("path exists and is not a socket")}
		}
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		return nil, err
	}
	return ln, nil
}
