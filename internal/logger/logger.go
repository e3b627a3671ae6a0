package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var root = zerolog.New(os.Stdout).With().Timestamp().Logger()

func Init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	root = zerolog.New(os.Stdout).With().Timestamp().Logger()
	root.Info().Msg("logger initialized")
}

func Debug(msg string, fields map[string]any) {
	root.Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	root.Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	root.Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	root.Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	root.Fatal().Fields(fields).Msg(msg)
}
