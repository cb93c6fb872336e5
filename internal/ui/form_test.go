// =============================================================================
// Requerimento - Terminal Form Tests
// =============================================================================

package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/types"
)

func testFormConfig() *config.Config {
	return &config.Config{
		Sigla: "MCI",
		Ano:   "2025",
		Valid: config.Lengths{CPF: 11, ID: 10, Oferta: 10},
	}
}

func TestNewPrefillsHeaderAndDates(t *testing.T) {
	m := New(testFormConfig(), nil)

	assert.Equal(t, "MCI", m.inputs[fSigla].Value())
	assert.Equal(t, "2025", m.inputs[fAno].Value())
	assert.NotEmpty(t, m.inputs[fData].Value(), "the date defaults to today")
	assert.Equal(t, fNome, m.focus, "the first record field starts focused")
}

func TestMaskDigits(t *testing.T) {
	m := New(testFormConfig(), nil)

	m.inputs[fCPF].SetValue("123.456.789-09")
	m.maskDigits(fCPF)
	assert.Equal(t, "12345678909", m.inputs[fCPF].Value())

	m.inputs[fID].SetValue("12ab34")
	m.maskDigits(fID)
	assert.Equal(t, "1234", m.inputs[fID].Value())

	// Over-length input is truncated to the configured maximum.
	m.inputs[fID].SetValue("123456789012345")
	m.maskDigits(fID)
	assert.Equal(t, "1234567890", m.inputs[fID].Value())
}

func TestRenderOutcome(t *testing.T) {
	m := New(testFormConfig(), nil)

	t.Run("new record", func(t *testing.T) {
		out := m.renderOutcome(&types.Result{
			Protocolo:     3,
			SecondaryPath: "Requerimentos/03MCI2025 Ana Silva.pdf",
			State:         types.ConversionSucceeded,
		})
		assert.Contains(t, out, "Linha adicionada (N req. 3)")
		assert.Contains(t, out, "03MCI2025 Ana Silva.pdf")
	})

	t.Run("reused record", func(t *testing.T) {
		out := m.renderOutcome(&types.Result{
			Protocolo:   1,
			PrimaryPath: "Requerimentos/01MCI2025 Ana Silva.txt",
			Reused:      true,
			State:       types.ConversionSkipped,
		})
		assert.Contains(t, out, "Já cadastrado (N req. 1)")
	})

	t.Run("partial success notes the missing pdf", func(t *testing.T) {
		out := m.renderOutcome(&types.Result{
			Protocolo:   2,
			PrimaryPath: "Requerimentos/02MCI2025 Ana Silva.txt",
			State:       types.ConversionSkipped,
		})
		assert.Contains(t, out, "PDF não gerado")
	})
}

func TestClearRecordFields(t *testing.T) {
	m := New(testFormConfig(), nil)

	m.inputs[fNome].SetValue("Ana Silva")
	m.inputs[fCPF].SetValue("12345678909")
	data := m.inputs[fData].Value()

	m.clearRecordFields()

	assert.Empty(t, m.inputs[fNome].Value())
	assert.Empty(t, m.inputs[fCPF].Value())
	assert.Equal(t, "MCI", m.inputs[fSigla].Value(), "the header survives a clear")
	assert.Equal(t, data, m.inputs[fData].Value(), "dates survive a clear")
	assert.Equal(t, fNome, m.focus)
}
