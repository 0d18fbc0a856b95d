package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"evocpi/internal/config"
	"evocpi/server"
)

func main() {

	conf, err := config.GetConfig()
	if err != nil {
		log.Println("configuration load failed", err)
		os.Exit(1)
	}

	gateway, err := server.NewGateway(conf)
	if err != nil {
		log.Println("gateway initialization failed", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = gateway.Start(ctx); err != nil {
		log.Println("gateway stopped", err)
		os.Exit(1)
	}
}
