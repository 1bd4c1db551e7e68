package logger

import (
	"os"
	"sync"

	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the global logger
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	mu     sync.Mutex
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

// Init initializes the global logger. Verbose forces debug level on the console.
func Init(verbose bool, opts Options) {
	mu.Lock()
	defer mu.Unlock()

	consoleLevel := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		consoleLevel.SetLevel(zapcore.DebugLevel)
	}

	fileLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Level != "" {
		if err := fileLevel.UnmarshalText([]byte(opts.Level)); err != nil {
			fileLevel.SetLevel(zapcore.InfoLevel)
		}
	}
	if verbose {
		fileLevel.SetLevel(zapcore.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.Lock(os.Stderr), consoleLevel),
	}

	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, fileLevel))
	}

	setLocked(zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel)))
}

// Set replaces the global logger. Mainly useful in tests.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	setLocked(l)
}

func setLocked(l *zap.Logger) {
	logger = l
	sugar = l.Sugar()
	zap.ReplaceGlobals(l)
}

// Close flushes buffered log entries
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if s := current(); s != nil {
		s.Debugw(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if s := current(); s != nil {
		s.Infow(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if s := current(); s != nil {
		s.Warnw(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if s := current(); s != nil {
		s.Errorw(msg, args...)
	}
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return sugar
}
