// ABOUTME: Structured logger construction for the CLI and MCP server.
// ABOUTME: Console encoding on stderr so command output on stdout stays clean.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps normal CLI runs quiet.
const DefaultLevel = "warn"

// New builds a console logger writing to stderr at level.
// Unknown levels fall back to DefaultLevel.
func New(level string) (*zap.Logger, error) {
	lvl, _ := ParseLevel(level)

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = false
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// ParseLevel reports the zap level for a name and whether it was recognised.
// Blank and unknown names map to DefaultLevel.
func ParseLevel(level string) (zapcore.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "" {
		return zapcore.WarnLevel, false
	}
	var lvl zapcore.Level
	if err := lvl.Set(name); err != nil {
		return zapcore.WarnLevel, false
	}
	return lvl, true
}
