package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = map[string]level{
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

type implLogger struct {
	logger *log.Logger
	level  level
}

// New creates a new Logger writing to stdout at the given level.
// Unknown levels default to info.
func New(levelName string) Logger {
	return NewWithWriter(levelName, os.Stdout)
}

// NewWithWriter creates a Logger writing to the given writer.
func NewWithWriter(levelName string, w io.Writer) Logger {
	lvl, ok := levelNames[strings.ToLower(levelName)]
	if !ok {
		lvl = levelInfo
	}
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  lvl,
	}
}

func (l *implLogger) log(lvl level, prefix, msg string, args ...interface{}) {
	if lvl < l.level {
		return
	}
	l.logger.Printf(prefix+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.log(levelDebug, "[DEBUG] ", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log(levelInfo, "[INFO] ", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log(levelWarn, "[WARN] ", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log(levelError, "[ERROR] ", msg, args...)
}

// Nop returns a Logger that discards everything. Intended for tests.
func Nop() Logger {
	return &implLogger{
		logger: log.New(io.Discard, "", 0),
		level:  levelError + 1,
	}
}
