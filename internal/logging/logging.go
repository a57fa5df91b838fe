// Package logging constructs the *log.Logger used across reposync's
// components, optionally rotating to a file via lumberjack.
package logging

import (
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a prefixed *log.Logger writing to os.Stderr, or to a
// rotating file if path is non-empty.
func New(prefix, path string) *log.Logger {
	if path == "" {
		return log.New(os.Stderr, prefix, log.LstdFlags)
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return log.New(rotator, prefix, log.LstdFlags)
}
