package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger, or a console logger in development.
func New(environment, level string) zerolog.Logger {
	return newWithWriter(os.Stdout, environment, level)
}

func newWithWriter(w io.Writer, environment, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: w}
		lvl = zerolog.DebugLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "snapvent-api").Logger()
}
