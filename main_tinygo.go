//go:build tinygo

package main

import (
	"context"
	"log/slog"

	"pocket/app"
	"pocket/hal"
	"pocket/internal/logging"
)

func main() {
	h := hal.New()
	log := logging.ForHAL(h)
	slog.SetDefault(log)
	if err := app.Run(context.Background(), h, app.Config{Log: log}); err != nil {
		log.Error("stopped", "err", err)
	}
	// Keep the crash screen up.
	select {}
}
