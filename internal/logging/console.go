//go:build !tinygo

package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New returns a console logger on w. Colors are used when w is a terminal.
func New(w io.Writer) *slog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		if st, err := f.Stat(); err == nil {
			color = st.Mode()&os.ModeCharDevice != 0
		}
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      Level,
		TimeFormat: "15:04:05.000",
		NoColor:    !color,
	}))
}
