// Command shopctl maintains a storefront store: schema, sample data,
// housekeeping sweeps and a diagnostics server.
//
//	shopctl migrate
//	shopctl seed --flavor cosmetics
//	shopctl cart:prune --older-than 720h
//	shopctl orders:purge --user 42
//	shopctl category:path GPU
//	shopctl diag --addr 127.0.0.1:9090
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
