// Package logging builds the slog loggers used by the runners.
package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"pocket/hal"
)

// Level is shared by every logger built here so it can change at runtime.
var Level = new(slog.LevelVar)

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// HALWriter forwards complete lines to a hal.Logger.
type HALWriter struct {
	mu  sync.Mutex
	l   hal.Logger
	buf []byte
}

func NewHALWriter(l hal.Logger) *HALWriter { return &HALWriter{l: l} }

func (w *HALWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		if w.l != nil {
			w.l.WriteLineBytes(w.buf[:i])
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// ForHAL is a logger writing plain text lines to the HAL's logger.
func ForHAL(h hal.HAL) *slog.Logger {
	return slog.New(slog.NewTextHandler(NewHALWriter(h.Logger()), &slog.HandlerOptions{Level: Level}))
}
