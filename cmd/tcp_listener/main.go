package main

import (
	"errors"
	"flag"
	"log/slog"
	"net"
	"os"

	"github.com/SteliosSpanos/networking-projects/internal/request"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	addr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	sock, err := net.Listen("tcp", *addr)
	if err != nil { slog.Error(err.Error()); return }
	defer sock.Close()
	slog.Info("Listening", "addr", sock.Addr().String())

	for {
		conn, err := sock.Accept()
		if err != nil { slog.Error(err.Error()); continue }
		remote := conn.RemoteAddr().String()

		r, err := request.ReadRequest(conn)
		conn.Close()
		switch {
		case errors.Is(err, request.ErrPeerClosed):
			slog.Info("Client disconnected", "remote", remote)
		case err != nil:
			slog.Error("Bad request", "remote", remote, "err", err)
		default:
			slog.Info("Request line",
				"remote", remote,
				"method", r.Method,
				"path", r.Path,
				"version", r.Version,
			)
		}
	}
}
