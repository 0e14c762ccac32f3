// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance. It is a no-op logger until Setup runs.
var Logger = zap.NewNop()

// New builds a logger writing to stderr. Debug selects the human-readable
// development encoder at debug level; otherwise JSON at info level.
func New(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}
	return cfg.Build()
}

// Setup replaces Logger and the zap globals. On failure Logger falls back to
// an example logger and the build error is returned.
func Setup(debug bool, appName, appVersion string) error {
	l, err := New(debug, appName, appVersion)
	if err != nil {
		Logger = zap.NewExample()
		return err
	}
	Logger = l
	zap.ReplaceGlobals(Logger)
	return nil
}
