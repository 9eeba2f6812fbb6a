package server

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/SteliosSpanos/networking-projects/internal/request"
)

// Handler writes the response for one request buffer. An empty buffer
// means the peer closed without sending anything.
type Handler func(w io.Writer, buf []byte) error

type Server struct {
	Listener net.Listener
	Handler  Handler
	Logger   *slog.Logger
	closed   atomic.Bool
}

func ListenAndServe(address string, handler Handler, logger *slog.Logger) (*Server, error) {
	if address == "" { address = ":http" }
	ln, err := net.Listen("tcp", address)
	if err != nil { return nil, err }

	srv := New(ln, handler, logger)
	go srv.Serve()
	return srv, nil
}

func New(ln net.Listener, handler Handler, logger *slog.Logger) *Server {
	if logger == nil { logger = slog.New(slog.NewTextHandler(io.Discard, nil)) }
	return &Server{
		Listener: ln,
		Handler:  handler,
		Logger:   logger,
	}
}

func (s *Server) Addr() net.Addr {
	return s.Listener.Addr()
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Serve accepts connections until Close is called. Each connection is
// handled in its own goroutine. Repeated accept errors are retried with a
// growing delay that resets on the next successful accept.
func (s *Server) Serve() error {
	var delay time.Duration
	for {
		conn, err := s.Listener.Accept()
		if s.closed.Load() {
			if conn != nil { conn.Close() }
			return nil // Graceful exit
		}
		if err != nil {
			if errors.Is(err, net.ErrClosed) { return err }
			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay = min(delay*2, maxAcceptDelay)
			}
			s.Logger.Error("Accept failed", "err", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go s.handle(conn)
	}
}

func (s *Server) Close() error {
	s.closed.Store(true)
	return s.Listener.Close()
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()

	buf := make([]byte, request.BufferSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		s.Logger.Error("Read failed", "remote", remote, "err", err)
		return
	}
	if n == 0 {
		s.Logger.Debug("Client disconnected", "remote", remote)
	}

	if err := s.Handler(conn, buf[:n]); err != nil {
		s.Logger.Error("Failed to send response", "remote", remote, "err", err)
	}
}
