// Package logging configures the process-wide zerolog.Logger, the way
// the teacher's internal/observability/logger.go (console writer setup)
// and internal/logging/config.go (env-driven level/format overrides,
// sync.Once gating) do, folded into one package since this module has
// no separate admin-HTTP surface to keep them apart for.
package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "SLIMPROTO_LOG_LEVEL"
	EnvLogTimestamp = "SLIMPROTO_LOG_TIMESTAMP"
	EnvLogNoColor   = "SLIMPROTO_LOG_NOCOLOR"
)

var (
	configureOnce sync.Once
	logger        zerolog.Logger
)

// Logger returns the process-wide logger, configuring it from the
// environment on first call.
func Logger() zerolog.Logger {
	configureOnce.Do(configure)
	return logger
}

func configure() {
	level := zerolog.InfoLevel
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}
	timestamp := true
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		timestamp = v
	}
	noColor := false
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		noColor = v
	}

	writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339, NoColor: noColor}
	ctx := zerolog.New(writer).Level(level).With().Str("app", "slimclient")
	if timestamp {
		ctx = ctx.Timestamp()
	}
	logger = ctx.Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
