// =============================================================================
// Requerimento - Ledger Store
// =============================================================================
//
// This module owns the protocol ledger: an append-only xlsx table named
// MALA<SIGLA>.xlsx with one row per submitted record. The ledger file is the
// single source of truth for sequence numbering; there is no separately
// persisted counter.
//
// LEDGER LAYOUT (fixed column order):
//
//   | N req. | N chamado | NOME | ID | CPF | CURSO | TURMA
//   | Código da oferta | Data | retorno (Previsão) |
//
// CONCURRENCY:
//   Submissions are serialized by the single-threaded controller; the store
//   mutex exists so that sequence assignment and the row write are one
//   atomic operation even if a future caller overlaps submissions. When
//   another process holds the file open the save fails and surfaces as a
//   StoreError.
//
// =============================================================================

package ledger

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edu-secretaria/requerimento/internal/types"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// StoreError indicates that the ledger file could not be read or written,
// e.g. because another process has it open. Recoverable by closing the other
// handle and resubmitting.
type StoreError struct {
	// Op is the operation that failed ("open", "create", "save", "read").
	Op string

	// Path is the ledger file path.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err is (or wraps) a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// =============================================================================
// COLUMN SCHEMA
// =============================================================================

// Columns is the canonical header row, in the fixed column order every
// append uses. The names are fixed so existing ledgers keep working.
var Columns = []string{
	"N req.",
	"N chamado",
	"NOME",
	"ID",
	"CPF",
	"CURSO",
	"TURMA",
	"Código da oferta",
	"Data",
	"retorno (Previsão)",
}

// Column indices into a ledger row.
const (
	colProtocolo = 0
	colChamado   = 1
	colNome      = 2
	colID        = 3
	colCPF       = 4
	colCurso     = 5
	colTurma     = 6
	colOferta    = 7
	colData      = 8
	colRetorno   = 9
)

// DateLayout is how dates are stored in ledger cells.
const DateLayout = "02/01/2006"

// =============================================================================
// STORE
// =============================================================================

// Store backs onto one ledger file. It is created per submission via
// LoadOrCreate and closed when the submission finishes.
type Store struct {
	mu    sync.Mutex
	path  string
	sheet string
	file  *excelize.File
}

// LoadOrCreate opens the ledger file if present; if absent it creates the
// file with the canonical header row.
//
// RETURNS:
//   - The opened Store.
//   - A StoreError if the file cannot be opened or created.
func LoadOrCreate(path string) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, &StoreError{Op: "open", Path: path, Err: err}
		}
		sheet := f.GetSheetName(0)
		if sheet == "" {
			f.Close()
			return nil, &StoreError{Op: "open", Path: path, Err: fmt.Errorf("ledger has no sheets")}
		}
		return &Store{path: path, sheet: sheet, file: f}, nil
	} else if !os.IsNotExist(err) {
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, &StoreError{Op: "create", Path: path, Err: err}
	}
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return nil, &StoreError{Op: "create", Path: path, Err: err}
	}

	return &Store{path: path, sheet: sheet, file: f}, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// Path returns the ledger file path.
func (s *Store) Path() string { return s.path }

// =============================================================================
// READ OPERATIONS
// =============================================================================

// RowCount returns the number of record rows (the header row excluded).
func (s *Store) RowCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowCountLocked()
}

// rowCountLocked counts non-empty data rows. Must be called with mu held.
func (s *Store) rowCountLocked() (int, error) {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return 0, &StoreError{Op: "read", Path: s.path, Err: err}
	}

	count := 0
	for i := 1; i < len(rows); i++ {
		if !rowEmpty(rows[i]) {
			count++
		}
	}
	return count, nil
}

// NextSequence returns the sequence number the next append will use:
// row count + 1. An empty ledger yields 1.
func (s *Store) NextSequence() (int, error) {
	count, err := s.RowCount()
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

// Exists performs a linear scan over existing rows, comparing name,
// identifier, tax identifier, and date for exact (trimmed) string equality.
//
// RETURNS:
//   - The matched row's sequence number and true when all four fields match.
//   - 0 and false when there is no match.
func (s *Store) Exists(nome, id, cpf string, data time.Time) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return 0, false, &StoreError{Op: "read", Path: s.path, Err: err}
	}

	wantData := data.Format(DateLayout)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if rowEmpty(row) {
			continue
		}
		if cell(row, colNome) != strings.TrimSpace(nome) {
			continue
		}
		if cell(row, colID) != strings.TrimSpace(id) {
			continue
		}
		if cell(row, colCPF) != strings.TrimSpace(cpf) {
			continue
		}
		if cell(row, colData) != wantData {
			continue
		}

		seq, err := strconv.Atoi(cell(row, colProtocolo))
		if err != nil {
			// A matching row with an unreadable sequence cell is treated
			// as absent rather than aborting the submission.
			continue
		}
		return seq, true, nil
	}

	return 0, false, nil
}

// =============================================================================
// APPEND
// =============================================================================

// Append assigns the next sequence number to the record and writes its row,
// as a single operation under the store mutex. The record's Protocolo field
// is set to the assigned number.
//
// RETURNS:
//   - The assigned sequence number.
//   - A StoreError if the row cannot be written (e.g. file locked by
//     another process).
func (s *Store) Append(rec *types.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.rowCountLocked()
	if err != nil {
		return 0, err
	}
	seq := count + 1
	rec.Protocolo = seq

	retorno := ""
	if !rec.Retorno.IsZero() {
		retorno = rec.Retorno.Format(DateLayout)
	}

	row := []interface{}{
		seq,
		rec.Chamado,
		rec.Nome,
		rec.ID,
		rec.CPF,
		rec.Curso,
		rec.Turma,
		rec.Oferta,
		rec.Data.Format(DateLayout),
		retorno,
	}

	// Header occupies row 1; data row N lives at sheet row N+1.
	cellRef := fmt.Sprintf("A%d", count+2)
	if err := s.file.SetSheetRow(s.sheet, cellRef, &row); err != nil {
		return 0, &StoreError{Op: "save", Path: s.path, Err: err}
	}
	if err := s.file.Save(); err != nil {
		return 0, &StoreError{Op: "save", Path: s.path, Err: err}
	}

	return seq, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// rowEmpty checks if a row contains only empty cells.
func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed cell at index i, or "" when the row is shorter.
func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
