// =============================================================================
// Requerimento - Submit Command
// =============================================================================
//
// This file defines the 'submit' command, the non-interactive mode: one
// submission assembled from flags.
//
// COMMAND USAGE:
//   requerimento submit --nome "Ana Silva" --id 1 --cpf 123.456.789-09 \
//       --curso X --turma T1 --oferta OF000001 [--data 01/03/2025]
//
// FLAGS (overrides, per execution):
//   --sigla, --ano            : protocol identity for this run
//   --cpf-len, --id-len,
//   --oferta-len              : fixed-length validation settings
//
// EXIT CODE:
//   0 on normal completion, including partial success where only the
//   primary document was produced; non-zero on invalid input or on
//   configuration/ledger failure.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/controller"
	"github.com/edu-secretaria/requerimento/internal/types"
)

// Record field flags.
var (
	flagNome    string
	flagChamado string
	flagID      string
	flagCPF     string
	flagCurso   string
	flagTurma   string
	flagOferta  string
	flagData    string
	flagRetorno string
)

// Per-execution configuration overrides.
var (
	flagSigla     string
	flagAno       string
	flagCPFLen    int
	flagIDLen     int
	flagOfertaLen int
)

// submitCmd represents the 'submit' command.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record one request from flags (non-interactive mode)",
	Long: `The submit command runs one submission without the form: the record
fields come from flags, the request is appended to the ledger (or matched to
an existing row), and the document is generated.

Resubmitting an identical (name, ID, CPF, date) combination does not create
a second ledger row; the existing sequence number is reused and the document
is regenerated.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmit()
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(&flagNome, "nome", "", "Full name (required)")
	submitCmd.Flags().StringVar(&flagChamado, "chamado", "", "External ticket number (optional)")
	submitCmd.Flags().StringVar(&flagID, "id", "", "Student identifier (required)")
	submitCmd.Flags().StringVar(&flagCPF, "cpf", "", "CPF, 11 digits, mask accepted (required)")
	submitCmd.Flags().StringVar(&flagCurso, "curso", "", "Course name (required)")
	submitCmd.Flags().StringVar(&flagTurma, "turma", "", "Class/cohort label (required)")
	submitCmd.Flags().StringVar(&flagOferta, "oferta", "", "Offer code (required)")
	submitCmd.Flags().StringVar(&flagData, "data", "", "Submission date DD/MM/YYYY (default: today)")
	submitCmd.Flags().StringVar(&flagRetorno, "retorno", "", "Expected return date DD/MM/YYYY (optional)")

	submitCmd.Flags().StringVar(&flagSigla, "sigla", "", "Sigla override for this execution (e.g. MCI, MMD, IOT)")
	submitCmd.Flags().StringVar(&flagAno, "ano", "", "Protocol year override for this execution")
	submitCmd.Flags().IntVar(&flagCPFLen, "cpf-len", 0, "CPF length override (default 11)")
	submitCmd.Flags().IntVar(&flagIDLen, "id-len", 0, "ID length override (default 10)")
	submitCmd.Flags().IntVar(&flagOfertaLen, "oferta-len", 0, "Offer code length override (default 10)")
}

// applyOverrides applies the per-execution flag overrides to the loaded
// configuration. Shared with the batch command.
func applyOverrides(cfg *config.Config) {
	if flagSigla != "" {
		cfg.Sigla = config.SanitizeSigla(flagSigla)
	}
	if flagAno != "" {
		cfg.Ano = flagAno
	}
	if flagCPFLen > 0 {
		cfg.Valid.CPF = flagCPFLen
	}
	if flagIDLen > 0 {
		cfg.Valid.ID = flagIDLen
	}
	if flagOfertaLen > 0 {
		cfg.Valid.Oferta = flagOfertaLen
	}
}

// runSubmit runs one submission from the record flags.
func runSubmit() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	applyOverrides(cfg)

	res, err := controller.New(cfg, log).Submit(types.RawSubmission{
		Nome:    flagNome,
		Chamado: flagChamado,
		ID:      flagID,
		CPF:     flagCPF,
		Curso:   flagCurso,
		Turma:   flagTurma,
		Oferta:  flagOferta,
		Data:    flagData,
		Retorno: flagRetorno,
	})
	if err != nil {
		return err
	}

	printResult(res)
	return nil
}

// printResult prints the submission summary.
func printResult(res *types.Result) {
	if res.Reused {
		fmt.Printf("Already in ledger: N req. %d (no new row)\n", res.Protocolo)
	} else {
		fmt.Printf("Appended:          N req. %d\n", res.Protocolo)
	}
	fmt.Printf("Ledger:            %s\n", res.LedgerPath)
	if res.PrimaryPath != "" {
		fmt.Printf("Document:          %s\n", res.PrimaryPath)
	}
	if res.SecondaryPath != "" {
		fmt.Printf("PDF:               %s\n", res.SecondaryPath)
	}
	for _, w := range res.Warnings {
		fmt.Printf("Warning:           %s\n", w)
	}
}
