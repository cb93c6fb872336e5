// =============================================================================
// Requerimento - Record Builder Tests
// =============================================================================

package record

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-secretaria/requerimento/internal/ledger"
	"github.com/edu-secretaria/requerimento/internal/types"
)

func testStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.LoadOrCreate(filepath.Join(t.TempDir(), "MALAMCI.xlsx"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSubmission() types.Submission {
	return types.Submission{
		Nome:    "Ana Silva",
		Chamado: "12345",
		ID:      "0000000001",
		CPF:     "12345678909",
		Curso:   "Engenharia",
		Turma:   "A1",
		Oferta:  "2025000123",
		Data:    time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildAppendsNewRecord(t *testing.T) {
	builder := NewBuilder(testStore(t))

	rec, reused, err := builder.Build(testSubmission())
	require.NoError(t, err)

	assert.False(t, reused)
	assert.Equal(t, 1, rec.Protocolo)
	assert.Equal(t, "Ana Silva", rec.Nome)
}

func TestBuildReusesExistingSequence(t *testing.T) {
	store := testStore(t)
	builder := NewBuilder(store)

	first, reused, err := builder.Build(testSubmission())
	require.NoError(t, err)
	require.False(t, reused)

	// Same person, same date: the row must not be duplicated.
	second, reused, err := builder.Build(testSubmission())
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.Protocolo, second.Protocolo)

	count, err := store.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBuildDifferentDateIsNewRecord(t *testing.T) {
	store := testStore(t)
	builder := NewBuilder(store)

	_, _, err := builder.Build(testSubmission())
	require.NoError(t, err)

	sub := testSubmission()
	sub.Data = sub.Data.AddDate(0, 0, 1)
	rec, reused, err := builder.Build(sub)
	require.NoError(t, err)

	assert.False(t, reused)
	assert.Equal(t, 2, rec.Protocolo)
}

func TestBuildInjectsCurrentDate(t *testing.T) {
	builder := NewBuilder(testStore(t))
	builder.now = func() time.Time {
		return time.Date(2025, time.July, 15, 14, 30, 0, 0, time.UTC)
	}

	sub := testSubmission()
	sub.Data = time.Time{}

	rec, _, err := builder.Build(sub)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC), rec.Data,
		"the injected date is truncated to the calendar day")
}
