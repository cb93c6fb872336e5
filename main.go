// =============================================================================
// Requerimento - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Requerimento CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   requerimento              - Open the interactive request form
//   requerimento submit       - Record a single request from flags
//   requerimento batch        - Record requests from a CSV file
//   requerimento version      - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/edu-secretaria/requerimento/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
