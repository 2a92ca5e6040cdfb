package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/product-inventory-admin/internal/di"
)

func main() {
	a, err := di.InitializeApp()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
