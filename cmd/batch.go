// =============================================================================
// Requerimento - Batch Command
// =============================================================================
//
// This file defines the 'batch' command: submissions read from a CSV file,
// one per row, each going through the same pipeline as a form submission.
//
// COMMAND USAGE:
//   requerimento batch --file lote.csv [--delimiter ";"]
//
// ON SUCCESS:
//   Each row prints its outcome; a summary closes the run. Row-level
//   validation failures do not stop the batch unless --stop-on-error is set.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/edu-secretaria/requerimento/internal/controller"
	"github.com/edu-secretaria/requerimento/internal/intake"
	"github.com/edu-secretaria/requerimento/internal/ledger"
)

// batchFile is the path to the intake CSV.
var batchFile string

// batchDelimiter is the CSV field separator.
var batchDelimiter string

// stopOnError stops the batch at the first failed row.
var stopOnError bool

// batchCmd represents the 'batch' command.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Record requests from a CSV file",
	Long: `The batch command reads a CSV file with one request per row (header row
uses the ledger column names) and submits each through the normal pipeline:
validation, duplicate check, ledger append, document generation.

Rows that fail validation are reported and skipped; the batch continues
unless --stop-on-error is set. A ledger I/O failure always stops the batch.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch()
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchFile, "file", "", "Path to the intake CSV file (required)")
	batchCmd.Flags().StringVar(&batchDelimiter, "delimiter", ",", "CSV field separator")
	batchCmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "Stop at the first failed row")

	batchCmd.Flags().StringVar(&flagSigla, "sigla", "", "Sigla override for this execution")
	batchCmd.Flags().StringVar(&flagAno, "ano", "", "Protocol year override for this execution")

	_ = batchCmd.MarkFlagRequired("file")
}

// runBatch submits every row of the intake file.
func runBatch() error {
	startTime := time.Now()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	applyOverrides(cfg)

	var delim rune
	for _, r := range batchDelimiter {
		delim = r
		break
	}

	rows, err := intake.ReadFile(batchFile, delim)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No rows to submit.")
		return nil
	}

	fmt.Printf("=== Requerimento batch ===\n")
	fmt.Printf("Submitting %d row(s) from %s\n\n", len(rows), filepath.Base(batchFile))

	ctrl := controller.New(cfg, log)

	var okCount, reusedCount, failCount int
	for _, row := range rows {
		res, err := ctrl.Submit(row.Raw)
		if err != nil {
			failCount++
			fmt.Printf("  ✗ line %d: %v\n", row.Line, err)
			// A ledger failure poisons every following row; input errors
			// only stop the batch when requested.
			if stopOnError || ledger.IsStoreError(err) {
				return fmt.Errorf("batch stopped at line %d: %w", row.Line, err)
			}
			continue
		}

		okCount++
		note := ""
		if res.Reused {
			reusedCount++
			note = " (reused)"
		}
		if res.PartialSuccess() {
			note += " (no PDF)"
		}
		fmt.Printf("  ✓ line %d: N req. %d%s\n", row.Line, res.Protocolo, note)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\n=== Batch complete ===\n")
	fmt.Printf("Total rows:      %d\n", len(rows))
	fmt.Printf("Submitted:       %d\n", okCount)
	fmt.Printf("Reused:          %d\n", reusedCount)
	fmt.Printf("Failed:          %d\n", failCount)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	return nil
}
