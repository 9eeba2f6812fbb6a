package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SteliosSpanos/networking-projects/internal/fileserver"
	"github.com/SteliosSpanos/networking-projects/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	root := flag.String("root", "www", "document root")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	level := slog.LevelInfo
	if *debug { level = slog.LevelDebug }
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if info, err := os.Stat(*root); err != nil || !info.IsDir() {
		slog.Error("Document root is not a directory", "root", *root)
		os.Exit(1)
	}

	handler := fileserver.New(*root, fileserver.WithLogger(logger))
	srv, err := server.ListenAndServe(*addr, handler.Respond, logger)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	defer srv.Close()
	slog.Info("Server started",
		"addr", srv.Addr().String(),
		"root", *root,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Server gracefully stopped")
}
