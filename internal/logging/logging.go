// Package logging builds the zap loggers shared by the binaries.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Debug   bool
	JSON    bool
	Service string
	// UID tags every entry with a random per-process id.
	UID bool
}

// New returns a JSON production logger or a console development logger.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.JSON {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	var fields []zap.Field
	if opts.Service != "" {
		fields = append(fields, zap.String("service", opts.Service))
	}
	if opts.UID {
		fields = append(fields, zap.String("uid", uuid.NewString()))
	}
	return logger.With(fields...), nil
}

// Must is New for main packages.
func Must(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		panic(err)
	}
	return logger
}
