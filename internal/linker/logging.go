package linker

import dlog "github.com/dlgo-project/dlgo/internal/log"

// logger is the package-wide structured logger. Defaults to a no-op sink so
// the core never panics or spams stdout when used as a plain library;
// cmd/dlgo wires a real zap-backed logger via SetLogger for its own runs.
var logger = dlog.NewNop()

// SetLogger installs l as the package logger.
func SetLogger(l *dlog.Logger) {
	if l != nil {
		logger = l
	}
}
