package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "GODTC_LOG_LEVEL"
	EnvLogNoColor = "GODTC_LOG_NOCOLOR"
)

// Config is the logger setup, environment variables override it.
type Config struct {
	Level   zerolog.Level
	NoColor bool
}

// New returns a console logger writing to w.
func New(w io.Writer, cfg Config) zerolog.Logger {
	applyEnvOverrides(&cfg)
	if cfg.Level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(cfg.Level)
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvLogNoColor))); err == nil {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level, ok is false for an
// empty or unknown name.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
	case "off", "disabled":
		return zerolog.Disabled, true
	}
	return zerolog.InfoLevel, false
}
