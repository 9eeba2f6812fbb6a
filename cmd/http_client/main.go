package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/SteliosSpanos/networking-projects/internal/client"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	addr := flag.String("addr", "127.0.0.1:8080", "server address")
	path := flag.String("path", "/", "path to request")
	flag.Parse()

	r, err := client.Get(*addr, *path)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	fmt.Printf("%s %d %s\n", r.Version, r.StatusCode, r.Reason)
	r.Headers.Each(func(name, value string) {
		fmt.Printf("%s: %s\n", name, value)
	})
	fmt.Println()
	os.Stdout.Write(r.Body)
}
