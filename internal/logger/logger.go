// Package logger wraps zerolog behind the small ctx-aware surface the rest of
// the service uses.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// InitLogging points the logger at the given file, falling back to stderr
// when the path is empty or the file cannot be opened.
func InitLogging(path string) {
	var w io.Writer = os.Stderr
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			w = io.MultiWriter(os.Stderr, f)
		}
	}
	log = zerolog.New(w).With().Timestamp().Logger()
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	log.Debug().Ctx(ctx).Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	log.Info().Ctx(ctx).Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	log.Warn().Ctx(ctx).Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	log.Error().Ctx(ctx).Msgf(format, args...)
}
