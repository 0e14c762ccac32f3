package main

import (
	"log"
	"os"
	"strings"

	"repodoc/cmd"
	"repodoc/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		logging.Logger.Error("repodoc execution failed", zap.Error(err))
	}

	// Syncing stderr fails with "invalid argument" on pipes and character devices.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logging.Logger.Sync(); syncErr != nil {
			if !strings.Contains(strings.ToLower(syncErr.Error()), "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// isRegularFile reports whether f is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
