package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"

	zaplogfmt "github.com/sykesm/zap-logfmt"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/delino/devbird-action/internal/cfg"
)

func zapEncoderConfig(config *cfg.Config) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	cfg.LevelKey = "loglevel"
	cfg.TimeKey = config.LogTimeKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	return cfg
}

func newLogFmtLogger(config *cfg.Config, out io.Writer, logLevel zapcore.Level) *zap.Logger {
	return zap.New(zapcore.NewCore(
		zaplogfmt.NewEncoder(zapEncoderConfig(config)),
		zapcore.AddSync(out),
		logLevel),
	)
}

func newZapFormatLogger(config *cfg.Config, out io.Writer, logLevel zapcore.Level) *zap.Logger {
	encCfg := zapEncoderConfig(config)

	var enc zapcore.Encoder
	if config.LogFormat == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), logLevel))
}

// NewLogger creates a logger that writes to out in the format and with the
// level from config.
// If verbose is true, the debug level is used.
func NewLogger(config *cfg.Config, out io.Writer, verbose bool) (*zap.Logger, error) {
	var logLevel zapcore.Level
	if verbose {
		logLevel = zapcore.DebugLevel
	} else if err := (&logLevel).Set(config.LogLevel); err != nil {
		return nil, fmt.Errorf("can not set log level to %q: %w", config.LogLevel, err)
	}

	switch config.LogFormat {
	case "logfmt":
		return newLogFmtLogger(config, out, logLevel), nil
	case "console", "json":
		return newZapFormatLogger(config, out, logLevel), nil
	default:
		return nil, fmt.Errorf("unsupported log-format argument: %q", config.LogFormat)
	}
}

// MustInitLogger creates the logger writing to stdout and installs it as
// global zap logger.
// Logs are flushed when the process terminates via goodbye.
func MustInitLogger(config *cfg.Config, verbose bool) *zap.Logger {
	logger, err := NewLogger(config, os.Stdout, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger = logger.Named("main")
	zap.ReplaceGlobals(logger)

	goodbye.Register(func(context.Context, os.Signal) {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "flushing logs failed: %s\n", err)
		}
	})

	return logger
}
