// Package log builds the slog loggers used by the kgraph command.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Format selects the output encoding.
type Format string

const (
	// FormatAuto picks JSON inside Kubernetes and the console writer elsewhere.
	FormatAuto    Format = ""
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatTint    Format = "tint"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatConsole, FormatJSON, FormatTint:
		return f, nil
	case "auto":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// ParseLevel resolves debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// New creates a logger writing to w.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	if format == FormatAuto {
		format = FormatConsole
		if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
			format = FormatJSON
		}
	}

	switch format {
	case FormatTint:
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	case FormatJSON:
		zerolog.TimeFieldFormat = time.RFC3339Nano
		return zerologLogger(zerolog.New(w), level)
	default:
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
		return zerologLogger(zerolog.New(output), level)
	}
}

// zerologLogger fronts zl with slog. Groups become nested objects.
func zerologLogger(zl zerolog.Logger, level slog.Level) *slog.Logger {
	return slog.New(slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler())
}
