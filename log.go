package core

import (
	"os"

	"github.com/rs/zerolog"
)

type Log interface {
	Info() *zerolog.Event
	Debug() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
}

func NewLogger(level zerolog.Level) *zerolog.Logger {
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return &logger
}

func nopLog() Log {
	logger := zerolog.Nop()
	return &logger
}
