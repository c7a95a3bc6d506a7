// Package main is the entry point for the droplog CLI.
//
// Its job is to read configuration from the environment, wire the dependency
// graph, and hand off to the command tree. All actual logic lives in the
// internal packages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/droplog/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Logs go to stderr so they never corrupt the interactive views on
	// stdout. Default level is warn; DROPLOG_LOG_LEVEL=debug turns on the
	// per-request gateway logging.
	level := slog.LevelWarn
	switch os.Getenv("DROPLOG_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	apiURL := os.Getenv("DROPLOG_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:3000"
	}

	dbPath := os.Getenv("DROPLOG_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot determine home directory; set DROPLOG_DB_PATH")
			os.Exit(1)
		}
		dbPath = filepath.Join(home, ".droplog", "droplog.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		fmt.Fprintf(os.Stderr, "creating %s: %v\n", filepath.Dir(dbPath), err)
		os.Exit(1)
	}

	app, err := commands.NewApp(apiURL, dbPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer app.Close()

	commands.SetVersion(version, commit)
	if err := commands.Execute(app); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
