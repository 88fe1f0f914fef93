package commands

import (
	"os"

	"github.com/rs/zerolog"
)

// zerologAdapter bridges the client's Logger interface onto zerolog.
type zerologAdapter struct {
	log zerolog.Logger
}

func newZerologAdapter() *zerologAdapter {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}

	return &zerologAdapter{
		log: zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.DebugLevel),
	}
}

func (a *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	a.log.Debug().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	a.log.Info().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	a.log.Warn().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	a.log.Error().Fields(fields).Msg(msg)
}
