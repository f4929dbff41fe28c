package gpucompute

import (
	"log/slog"

	"github.com/nikki93/gxwgsl/internal/logging"
)

// SetLogger configures the logger used by the runtime. It shares its logger
// with the compiler package. By default nothing is logged; pass nil to
// restore that.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

func logger() *slog.Logger {
	return logging.Logger()
}
