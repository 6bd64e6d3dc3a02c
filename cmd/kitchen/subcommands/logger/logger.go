// Package logger builds the loggers kitchen tasks report through.
package logger

import (
	"fmt"
	"io"
	"log"
)

// Null returns a logger that drops everything. Tests use it to silence
// tasks under test.
func Null() *log.Logger {
	return log.New(io.Discard, "", log.LstdFlags)
}

func Default() *log.Logger {
	return log.Default()
}

// For returns a logger writing to w, prefixed with the command name so
// nested subcommands identify themselves.
func For(name string, w io.Writer) *log.Logger {
	return log.New(w, fmt.Sprintf("[%s] ", name), log.LstdFlags)
}
