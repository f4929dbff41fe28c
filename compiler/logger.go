package compiler

import (
	"log/slog"

	"github.com/nikki93/gxwgsl/internal/logging"
)

// SetLogger configures the logger used by the compiler and the gpucompute
// runtime. By default nothing is logged; pass nil to restore that.
//
// Debug records cover classification and binding allocation.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

func logger() *slog.Logger {
	return logging.Logger()
}
