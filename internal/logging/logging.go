package logging

import (
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the sink and level for the process-wide logger. The
// logger is built once per run and closed when the run ends.
type Options struct {
	// Debug enables debug-level output; otherwise info and above.
	Debug bool

	// Stdout sends log lines to standard output instead of the system log.
	Stdout bool

	// FilePath, when non-empty, additionally appends to a rotating file.
	FilePath string

	// Tag is the syslog program tag.
	Tag string
}

// Logger wraps zap with the closers its sinks need released at run end.
type Logger struct {
	*zap.Logger
	closers []io.Closer
}

// New builds the logger described by opts. When the system log is selected
// but unavailable (no syslog daemon), it falls back to standard error
// rather than failing the run.
func New(opts Options) (*Logger, error) {
	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}

	l := &Logger{}
	var cores []zapcore.Core

	if opts.Stdout {
		cores = append(cores, consoleCore(os.Stdout, level))
	} else {
		core, closer, err := newSyslogCore(opts.Tag, level)
		if err != nil {
			cores = append(cores, consoleCore(os.Stderr, level))
		} else {
			cores = append(cores, core)
			l.closers = append(l.closers, closer)
		}
	}

	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(cfg),
			zapcore.AddSync(rotator),
			level,
		))
		l.closers = append(l.closers, rotator)
	}

	l.Logger = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// Close flushes and releases every sink. Safe to defer immediately after New.
func (l *Logger) Close() error {
	err := l.Logger.Sync()
	// Sync on a terminal fails with ENOTTY-style errors; not actionable.
	if pathErr, ok := err.(*os.PathError); ok && pathErr != nil {
		err = nil
	}
	for _, c := range l.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func consoleCore(w *os.File, level zapcore.Level) zapcore.Core {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(w), level)
}
