package main

import (
	"context"
	"log/slog"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"kimbo/internal/lambda"
	"kimbo/internal/server/backend"
	"kimbo/internal/server/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	b, err := backend.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open counter store", "error", err)
		os.Exit(1)
	}

	h := lambda.NewHandler(b.Ledger(cfg), cfg.MaxFileSize, cfg.QuotaFailOpen)
	awslambda.Start(h.Handle)
}
