// =============================================================================
// Requerimento - Batch CSV Intake Tests
// =============================================================================

package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIntake(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lote.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeIntake(t, `NOME,ID,CPF,CURSO,TURMA,Código da oferta,Data,retorno (Previsão)
Ana Silva,1,123.456.789-09,Engenharia,A1,2025000123,02/03/2025,10/03/2025
Bruno Costa,2,987.654.321-00,Letras,B2,2025000456,,
`)

	rows, err := ReadFile(path, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Ana Silva", rows[0].Raw.Nome)
	assert.Equal(t, "123.456.789-09", rows[0].Raw.CPF, "values pass through raw; validation happens later")
	assert.Equal(t, "2025000123", rows[0].Raw.Oferta)
	assert.Equal(t, "10/03/2025", rows[0].Raw.Retorno)

	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "Bruno Costa", rows[1].Raw.Nome)
	assert.Empty(t, rows[1].Raw.Data)
}

func TestReadFileSemicolonDelimiter(t *testing.T) {
	path := writeIntake(t, "NOME;ID;CPF\nAna Silva;1;12345678909\n")

	rows, err := ReadFile(path, ';')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Silva", rows[0].Raw.Nome)
	assert.Equal(t, "12345678909", rows[0].Raw.CPF)
}

func TestReadFileHeaderVariants(t *testing.T) {
	// BOM on the first column, mixed case, accent-free spelling, and an
	// extra "N req." column that must be ignored.
	path := writeIntake(t, "\uFEFFN req.,nome,id,cpf,Codigo da oferta,retorno\n99,Ana Silva,1,12345678909,2025000123,10/03/2025\n")

	rows, err := ReadFile(path, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Ana Silva", rows[0].Raw.Nome)
	assert.Equal(t, "2025000123", rows[0].Raw.Oferta)
	assert.Equal(t, "10/03/2025", rows[0].Raw.Retorno)
}

func TestReadFileSkipsEmptyRows(t *testing.T) {
	path := writeIntake(t, "NOME,ID\nAna Silva,1\n,\nBruno Costa,2\n")

	rows, err := ReadFile(path, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bruno Costa", rows[1].Raw.Nome)
	assert.Equal(t, 4, rows[1].Line, "line numbers track the source file")
}

func TestReadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"), 0)
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadFile(writeIntake(t, ""), 0)
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("unrecognized header", func(t *testing.T) {
		_, err := ReadFile(writeIntake(t, "foo,bar\n1,2\n"), 0)
		assert.ErrorContains(t, err, "no recognized columns")
	})
}
