// =============================================================================
// Requerimento - Field Validation Tests
// =============================================================================

package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/types"
)

func testValidator() *Validator {
	return New(&config.Config{Valid: config.Lengths{CPF: 11, ID: 10, Oferta: 10}})
}

// validRaw is a submission that passes every rule; tests mutate single fields.
func validRaw() types.RawSubmission {
	return types.RawSubmission{
		Nome:    "Ana Silva",
		Chamado: "12345",
		ID:      "1234567890",
		CPF:     "123.456.789-09",
		Curso:   "Engenharia",
		Turma:   "A1",
		Oferta:  "2025000123",
		Data:    "02/03/2025",
		Retorno: "10/03/2025",
	}
}

func TestNormalizeValidSubmission(t *testing.T) {
	sub, err := testValidator().Normalize(validRaw())
	require.NoError(t, err)

	assert.Equal(t, "Ana Silva", sub.Nome)
	assert.Equal(t, "12345678909", sub.CPF, "mask characters are stripped")
	assert.Equal(t, "1234567890", sub.ID)
	assert.Equal(t, "2025000123", sub.Oferta)
	assert.Equal(t, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), sub.Data)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), sub.Retorno)
}

func TestNormalizeRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.RawSubmission)
		field  string
	}{
		{"empty name", func(r *types.RawSubmission) { r.Nome = "" }, "NOME"},
		{"whitespace name", func(r *types.RawSubmission) { r.Nome = "   " }, "NOME"},
		{"empty course", func(r *types.RawSubmission) { r.Curso = "" }, "CURSO"},
		{"empty class", func(r *types.RawSubmission) { r.Turma = "" }, "TURMA"},
		{"empty offer", func(r *types.RawSubmission) { r.Oferta = "" }, "Código da oferta"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.mutate(&raw)

			_, err := testValidator().Normalize(raw)
			require.Error(t, err)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field)
			assert.Equal(t, "required", fe.Rule)
		})
	}
}

func TestNormalizeCPF(t *testing.T) {
	t.Run("masked input accepted", func(t *testing.T) {
		raw := validRaw()
		raw.CPF = "123.456.789-09"
		sub, err := testValidator().Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "12345678909", sub.CPF)
	})

	t.Run("too few digits rejected", func(t *testing.T) {
		raw := validRaw()
		raw.CPF = "123.456.78-09"
		_, err := testValidator().Normalize(raw)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "CPF", fe.Field)
		assert.Equal(t, "length", fe.Rule)
	})

	t.Run("too many digits rejected", func(t *testing.T) {
		raw := validRaw()
		raw.CPF = "123456789091"
		_, err := testValidator().Normalize(raw)
		assert.True(t, IsFieldError(err))
	})
}

func TestNormalizeFixedDigits(t *testing.T) {
	t.Run("short id left-padded", func(t *testing.T) {
		raw := validRaw()
		raw.ID = "1"
		sub, err := testValidator().Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "0000000001", sub.ID)
	})

	t.Run("oversize id rejected", func(t *testing.T) {
		raw := validRaw()
		raw.ID = "12345678901"
		_, err := testValidator().Normalize(raw)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "ID", fe.Field)
	})

	t.Run("short offer left-padded", func(t *testing.T) {
		raw := validRaw()
		raw.Oferta = "123"
		sub, err := testValidator().Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "0000000123", sub.Oferta)
	})
}

func TestNormalizeDates(t *testing.T) {
	want := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"02/03/2025", "2025-03-02", "02-03-2025", "02.03.2025"} {
		t.Run(input, func(t *testing.T) {
			raw := validRaw()
			raw.Data = input
			sub, err := testValidator().Normalize(raw)
			require.NoError(t, err)
			assert.Equal(t, want, sub.Data)
		})
	}

	t.Run("empty date stays zero", func(t *testing.T) {
		raw := validRaw()
		raw.Data = ""
		raw.Retorno = ""
		sub, err := testValidator().Normalize(raw)
		require.NoError(t, err)
		assert.True(t, sub.Data.IsZero())
		assert.True(t, sub.Retorno.IsZero())
	})

	t.Run("garbage date rejected", func(t *testing.T) {
		raw := validRaw()
		raw.Retorno = "next week"
		_, err := testValidator().Normalize(raw)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "retorno (Previsão)", fe.Field)
		assert.Equal(t, "date", fe.Rule)
	})
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "12345678909", DigitsOnly("123.456.789-09"))
	assert.Equal(t, "", DigitsOnly("abc"))
	assert.Equal(t, "2025", DigitsOnly(" 2 0 2 5 "))
}

func TestFormatCPF(t *testing.T) {
	assert.Equal(t, "123.456.789-09", FormatCPF("12345678909"))
	assert.Equal(t, "1234", FormatCPF("1234"), "non-canonical lengths pass through")
	assert.Equal(t, "", FormatCPF(""))
}
