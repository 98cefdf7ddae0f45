package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

func New(env string) *Logger {
	var zl zerolog.Logger
	if env == "production" {
		zl = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger().
			Level(zerolog.DebugLevel)
	}
	return &Logger{zl: zl}
}

func (l *Logger) Info(v ...interface{}) {
	l.zl.Info().Msg(fmt.Sprint(v...))
}

func (l *Logger) Error(v ...interface{}) {
	l.zl.Error().Msg(fmt.Sprint(v...))
}

func (l *Logger) Debug(v ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprint(v...))
}

func (l *Logger) Warn(v ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprint(v...))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.zl.Fatal().Msg(fmt.Sprint(v...))
}
