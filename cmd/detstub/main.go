package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/luisrosales852/object-detection/pkg/stub"
)

func main() {
	port := flag.Int("port", 8000, "port to listen on")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	if err := stub.NewServer(*port, logger).Start(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}
