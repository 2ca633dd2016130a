package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// setupLog sends logs to the file named by STUDYPAL_LOGFILE. Without it,
// logging is disabled so the TUI stays clean.
func setupLog() (func() error, error) {
	path := os.Getenv("STUDYPAL_LOGFILE")
	if path == "" {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.FatalLevel)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("error setting up logging: %w", err)
	}

	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetTimeFormat(time.Kitchen)
	log.SetReportCaller(true)
	return f.Close, nil
}
