// Package logutil provides a shared destination for debug loggers. Loggers
// obtained from GetLogger discard output until SetOutput or SetOutputFile
// directs them somewhere.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
)

var out = &swappableWriter{w: io.Discard}

type swappableWriter struct {
	w io.Writer
}

func (sw *swappableWriter) Write(p []byte) (int, error) {
	return sw.w.Write(p)
}

// GetLogger returns a logger with the given prefix, writing to the shared
// destination.
func GetLogger(prefix string) *log.Logger {
	return log.New(out, prefix, log.LstdFlags)
}

// SetOutput redirects the output of all loggers to the given writer.
func SetOutput(w io.Writer) {
	out.w = w
}

// SetOutputFile redirects the output of all loggers to the named file,
// creating it if needed. An empty name silences output again.
func SetOutputFile(name string) error {
	if name == "" {
		SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	SetOutput(f)
	return nil
}
