// Package flags holds the command-line flags shared by the pass.share binaries.
package flags

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"pass.share/config"
	"pass.share/internal/logging"
)

var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Value:   "",
	Usage:   "path to YAML config file",
	EnvVars: []string{"CONFIG"},
}

var LogJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}

var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}

var LogUIDFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

// LogFlags returns the logging flags with the given service default.
func LogFlags(service string) []cli.Flag {
	return []cli.Flag{LogJSONFlag, LogDebugFlag, LogUIDFlag, LogServiceFlagFn(service)}
}

// SetupLogger builds the logger from the config's log section. Flags given
// on the command line win over the file.
func SetupLogger(cCtx *cli.Context, cfg config.LogConfig) (*zap.Logger, error) {
	opts := logging.Options{
		Debug:   cfg.Debug,
		JSON:    cfg.JSON,
		Service: cfg.Service,
		UID:     cCtx.Bool(LogUIDFlag.Name),
	}
	if cCtx.IsSet(LogDebugFlag.Name) {
		opts.Debug = cCtx.Bool(LogDebugFlag.Name)
	}
	if cCtx.IsSet(LogJSONFlag.Name) {
		opts.JSON = cCtx.Bool(LogJSONFlag.Name)
	}
	if cCtx.IsSet("log-service") || opts.Service == "" {
		opts.Service = cCtx.String("log-service")
	}
	return logging.New(opts)
}

// LoadConfig reads the file named by --config, then the environment.
func LoadConfig(cCtx *cli.Context) (*config.Config, error) {
	return config.Load(cCtx.String(ConfigFlag.Name))
}
