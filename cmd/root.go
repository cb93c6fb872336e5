// =============================================================================
// Requerimento - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the bare
// binary opens the interactive form (the default mode); the non-interactive
// surface lives in the 'submit' and 'batch' subcommands.
//
// COBRA CLI STRUCTURE:
//   rootCmd (requerimento)
//   ├── formCmd   (requerimento form)    - interactive form (also the default)
//   ├── submitCmd (requerimento submit)  - one submission from flags
//   ├── batchCmd  (requerimento batch)   - submissions from a CSV file
//   └── versionCmd (requerimento version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/logging"
	"github.com/edu-secretaria/requerimento/internal/ui"
)

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag (or MCI_CONFIG).
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "requerimento",
	Short: "Requerimento - registra protocolos na planilha e gera o documento",
	Long: `Requerimento records protocol requests into the MALA<SIGLA>.xlsx ledger
and generates the per-record request document from a template, converting it
to PDF when a converter is available.

Running the command without arguments opens the interactive form.

Example Usage:
  requerimento                               # interactive form
  requerimento submit --nome "Ana Silva" ... # one submission from flags
  requerimento batch --file lote.csv         # submissions from a CSV file`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Default mode: the interactive form.
		return runForm()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (MCI_CONFIG overrides)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// setup loads the configuration and builds the logger. Shared by every
// command; a failure here is a fatal startup error (ConfigError).
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel, verbose)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

// runForm starts the interactive form; shared by the root and 'form'
// commands.
func runForm() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	return ui.Run(cfg, log)
}
