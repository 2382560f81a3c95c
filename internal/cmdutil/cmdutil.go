// Package cmdutil contains the process setup shared by the action
// executables.
package cmdutil

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"

	"github.com/delino/devbird-action/internal/actionerr"
	"github.com/delino/devbird-action/internal/cfg"
	"github.com/delino/devbird-action/internal/logfields"
)

type Arguments struct {
	Verbose     *bool
	ConfigFile  *string
	ShowVersion *bool
}

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func MustParseCommandlineParams(appName, description string) *Arguments {
	args := Arguments{
		Verbose: pflag.BoolP(
			"verbose",
			"v",
			false,
			"enable verbose logging",
		),
		ConfigFile: pflag.StringP(
			"cfg-file",
			"c",
			"",
			"path to an optional configuration file",
		),
		ShowVersion: pflag.Bool(
			"version",
			false,
			"print the version and exit",
		),
	}

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]\n%s\n", appName, description)
		fmt.Fprintf(os.Stderr, "\nInputs are read from the GitHub Actions INPUT_* environment variables.\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	return &args
}

// MustLoadCfg loads the configuration file, if one was passed, and applies
// the environment overrides.
// The process is terminated if the configuration is invalid.
func MustLoadCfg(args *Arguments) *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	config := cfg.Default()

	if *args.ConfigFile != "" {
		file, err := os.Open(*args.ConfigFile)
		exitOnErr("could not open configuration file", err)
		defer file.Close()

		config, err = cfg.Load(file)
		exitOnErr(fmt.Sprintf("could not load configuration file: %s", *args.ConfigFile), err)
	}

	config.ApplyEnv(os.Getenv)

	exitOnErr("invalid configuration", config.Validate())

	return config
}

// LogCfg logs the effective configuration on debug level.
func LogCfg(logger *zap.Logger, config *cfg.Config, args *Arguments, version string) {
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}

	var buf bytes.Buffer

	if err := config.Marshal(&buf); err != nil {
		logger.Warn(
			"marshaling configuration failed",
			logfields.Event("cfg_marshaling_failed"),
			zap.Error(err),
		)

		return
	}

	logger.Debug(
		"configuration loaded",
		logfields.Event("cfg_loaded"),
		zap.String("version", version),
		zap.String("cfg_file", *args.ConfigFile),
		zap.String("cfg", buf.String()),
	)
}

// Failer marks the current step as failed.
type Failer interface {
	Fail(err error)
}

// Run executes fn and returns the exit code of the process.
// When fn returns an error or panics, the step is marked as failed via
// failer and 1 is returned.
func Run(ctx context.Context, failer Failer, fn func(context.Context) error) (exitCode int) {
	logger := zap.L().Named("main")

	defer func() {
		if r := recover(); r != nil {
			err := &actionerr.PanicError{Value: r}

			logger.Error(
				"step terminated unexpectedly",
				logfields.Event("step_panicked"),
				zap.Error(err),
				zap.StackSkip("stacktrace", 1),
			)

			failer.Fail(err)
			exitCode = 1
		}
	}()

	if err := fn(ctx); err != nil {
		logger.Error(
			"step failed",
			logfields.Event("step_failed"),
			zap.Error(err),
		)

		failer.Fail(err)
		return 1
	}

	return 0
}

// RegisterSignalLogger logs the signal that terminates the process.
func RegisterSignalLogger() {
	goodbye.Register(func(_ context.Context, sig os.Signal) {
		if sig == nil {
			return
		}

		zap.L().Named("main").Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
	})
}
