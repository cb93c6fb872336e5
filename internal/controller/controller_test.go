// =============================================================================
// Requerimento - Submission Controller Tests
// =============================================================================
//
// End-to-end submissions against a temporary workspace: real configuration
// file, real xlsx ledger, plain-text template, fake converters.
//
// =============================================================================

package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/document"
	"github.com/edu-secretaria/requerimento/internal/ledger"
	"github.com/edu-secretaria/requerimento/internal/types"
	"github.com/edu-secretaria/requerimento/internal/validation"
)

// newTestConfig builds a fully wired configuration inside a temp dir, loaded
// through config.Load so Save has a file to write back to.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	for _, key := range []string{"MCI_CONFIG", "MCI_SIGLA", "MCI_ANO", "MCI_DOCX", "MCI_SAIDAS", "MCI_XLSX"} {
		t.Setenv(key, "")
	}

	tpl := filepath.Join(dir, "modelo.txt")
	require.NoError(t, os.WriteFile(tpl,
		[]byte("Requerimento {{protocolo}} - {{nome}} ({{cpf}})\n"), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`sigla: MCI
ano: "2025"
template: %s
output_dir: %s
ledger_file: %s
`, tpl, filepath.Join(dir, "Requerimentos"), filepath.Join(dir, "MALAMCI.xlsx"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	return cfg
}

func testRaw() types.RawSubmission {
	return types.RawSubmission{
		Nome:    "Ana Silva",
		Chamado: "12345",
		ID:      "1",
		CPF:     "123.456.789-09",
		Curso:   "Engenharia",
		Turma:   "A1",
		Oferta:  "2025000123",
		Data:    "02/03/2025",
	}
}

// copyConverter produces the secondary document by copying the primary.
func copyConverter() document.Converter {
	return &document.FuncConverter{
		ConverterName: "stub",
		ConvertFunc: func(src, dst string) error {
			data, err := os.ReadFile(src)
			if err != nil {
				return err
			}
			return os.WriteFile(dst, data, 0o644)
		},
	}
}

func TestSubmitFirstRecord(t *testing.T) {
	cfg := newTestConfig(t)
	ctrl := NewWithConverters(cfg, nil, []document.Converter{copyConverter()})

	res, err := ctrl.Submit(testRaw())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Protocolo, "an empty ledger issues sequence 1")
	assert.False(t, res.Reused)
	assert.NotEmpty(t, res.SubmissionID)
	assert.Equal(t, types.ConversionSucceeded, res.State)
	assert.False(t, res.PartialSuccess())

	assert.Equal(t, "01MCI2025 Ana Silva.txt", filepath.Base(res.PrimaryPath))
	assert.Equal(t, "01MCI2025 Ana Silva.pdf", filepath.Base(res.SecondaryPath))
	assert.FileExists(t, res.PrimaryPath)
	assert.FileExists(t, res.SecondaryPath)

	data, err := os.ReadFile(res.PrimaryPath)
	require.NoError(t, err)
	assert.Equal(t, "Requerimento 01 - Ana Silva (123.456.789-09)\n", string(data))
}

func TestSubmitDuplicateReusesSequence(t *testing.T) {
	cfg := newTestConfig(t)
	ctrl := NewWithConverters(cfg, nil, []document.Converter{copyConverter()})

	first, err := ctrl.Submit(testRaw())
	require.NoError(t, err)

	second, err := ctrl.Submit(testRaw())
	require.NoError(t, err)

	assert.True(t, second.Reused)
	assert.Equal(t, first.Protocolo, second.Protocolo)

	store, err := ledger.LoadOrCreate(cfg.LedgerPath())
	require.NoError(t, err)
	defer store.Close()

	count, err := store.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "resubmission must not duplicate the ledger row")
}

func TestSubmitSequencesAdvance(t *testing.T) {
	cfg := newTestConfig(t)
	ctrl := NewWithConverters(cfg, nil, nil)

	first, err := ctrl.Submit(testRaw())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Protocolo)

	raw := testRaw()
	raw.Nome = "Bruno Costa"
	raw.CPF = "987.654.321-00"
	second, err := ctrl.Submit(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Protocolo)
}

func TestSubmitWithoutConverters(t *testing.T) {
	cfg := newTestConfig(t)
	ctrl := NewWithConverters(cfg, nil, nil)

	res, err := ctrl.Submit(testRaw())
	require.NoError(t, err, "a skipped conversion is still a successful submission")

	assert.Equal(t, types.ConversionSkipped, res.State)
	assert.True(t, res.PartialSuccess())
	assert.Empty(t, res.SecondaryPath)
	assert.FileExists(t, res.PrimaryPath)
	assert.NotEmpty(t, res.Warnings)
}

func TestSubmitValidationFailure(t *testing.T) {
	cfg := newTestConfig(t)
	ctrl := NewWithConverters(cfg, nil, nil)

	raw := testRaw()
	raw.CPF = "123"

	_, err := ctrl.Submit(raw)
	require.Error(t, err)
	assert.True(t, validation.IsFieldError(err))

	// A rejected submission must leave no trace in the ledger.
	assert.NoFileExists(t, cfg.LedgerPath())
}

func TestSubmitTracksLastReq(t *testing.T) {
	cfg := newTestConfig(t)
	ctrl := NewWithConverters(cfg, nil, nil)

	_, err := ctrl.Submit(testRaw())
	require.NoError(t, err)

	reloaded, err := config.Load(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.LastReq, "last_req is written back after an append")
}
