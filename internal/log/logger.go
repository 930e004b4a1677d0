// Package log provides structured logging for dlgo using zap.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with dlgo-specific helpers.
type Logger struct {
	*zap.Logger
	onEvent func(module, category, name, detail string) // trace callback for events
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// SetOnEvent sets the trace callback invoked by Event. The Load, Reloc,
// Lookup and CtorCall helpers do not invoke it.
func (l *Logger) SetOnEvent(fn func(module, category, name, detail string)) {
	l.onEvent = fn
}

// Event logs a generic linker operation and calls the trace callback if set.
func (l *Logger) Event(module, category, name, detail string) {
	if l.onEvent != nil {
		l.onEvent(module, category, name, detail)
	}

	l.Debug("linker",
		zap.String("mod", module),
		zap.String("cat", category),
		zap.String("op", name),
		zap.String("detail", detail),
	)
}

// Load logs a module load step.
func (l *Logger) Load(module, step string, addr uint64) {
	l.Debug("load",
		zap.String("mod", module),
		zap.String("step", step),
		Addr(addr),
	)
}

// Reloc logs an applied relocation.
func (l *Logger) Reloc(module, relType string, target, value uint64) {
	l.Debug("reloc",
		zap.String("mod", module),
		zap.String("type", relType),
		zap.String("target", Hex(target)),
		zap.String("value", Hex(value)),
	)
}

// Lookup logs a symbol resolution attempt.
func (l *Logger) Lookup(module, symbol string, addr uint64, via string) {
	l.Debug("lookup",
		zap.String("mod", module),
		zap.String("sym", symbol),
		Addr(addr),
		zap.String("via", via),
	)
}

// CtorCall logs a constructor/destructor/init-array invocation.
func (l *Logger) CtorCall(module, kind string, index int, addr uint64) {
	l.Debug("ctorcall",
		zap.String("mod", module),
		zap.String("kind", kind),
		zap.Int("idx", index),
		Addr(addr),
	)
}

// WithModule returns a logger with the module field preset.
func (l *Logger) WithModule(module string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(zap.String("mod", module)),
		onEvent: l.onEvent,
	}
}

// Hex formats a uint64 as hex string for logging.
func Hex(addr uint64) string {
	return "0x" + hexString(addr)
}

func hexString(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 16)
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}

// Field helpers for common patterns.

// Addr creates an address field.
func Addr(addr uint64) zap.Field {
	return zap.String("addr", Hex(addr))
}

// Size creates a size field.
func Size(size uint64) zap.Field {
	return zap.Uint64("size", size)
}

// Ptr creates a pointer field.
func Ptr(name string, ptr uint64) zap.Field {
	return zap.String(name, Hex(ptr))
}

// Fn creates a function/symbol name field.
func Fn(name string) zap.Field {
	return zap.String("fn", name)
}
