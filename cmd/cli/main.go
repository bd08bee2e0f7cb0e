package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpclient "codepad/internal/cli/http"
	"codepad/internal/cli/repl"
)

func main() {
	baseURL := flag.String("base", "http://127.0.0.1:8090", "playground server base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := httpclient.New(*baseURL, *timeout)
	session, err := repl.New(client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start repl failed: %v\n", err)
		os.Exit(1)
	}
	session.Run(ctx)
}
