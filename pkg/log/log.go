// Package log builds the structured logger shared by every part of a run.
package log

import (
	"fmt"
	"os"

	"github.com/pingcap/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bulkloader/pkg/config"
)

// InitLogger builds a zap logger from the [log] section.
// An empty file name logs to stderr.
func InitLogger(cfg *config.Log) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, errors.Annotatef(err, "invalid log level %q", cfg.Level)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Sampling = nil
	zcfg.DisableStacktrace = true
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == config.LogFormatJSON {
		zcfg.Encoding = "json"
	} else {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
	} else {
		zcfg.OutputPaths = []string{"stderr"}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Annotate(err, "build logger failed")
	}
	return logger, nil
}

// Must exits the program when the logger cannot be built.
func Must(logger *zap.Logger, err error) *zap.Logger {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger: ", err)
		os.Exit(2)
	}
	return logger
}

// ShortError contains the error message only, without the stack.
func ShortError(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", err.Error())
}
