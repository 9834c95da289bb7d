package main

import (
	"os"

	"github.com/joshua-mo-143/milkmilk/internal/cli"
	"github.com/joshua-mo-143/milkmilk/internal/logging"
)

// main is the entry point for the milkmilk CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		cli.ReportFailure(os.Stdout)
		os.Exit(1)
	}
}
