// Command web serves the processed visa statistics over HTTP: dataset
// tables, generated report downloads, health, and Prometheus metrics.
package main

import (
	"log/slog"
	"os"

	"visacli/internal/app"
	"visacli/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
