//go:build release

package invariant

import "log/slog"

func defaultHandler(v Violation) {
	slog.Error("invariant violated", "msg", v.Msg)
}
