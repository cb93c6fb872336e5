// =============================================================================
// Requerimento - Batch CSV Intake
// =============================================================================
//
// Reads a CSV of pending submissions, one per row, for the batch command.
// The header row uses the ledger column vocabulary (matched
// case-insensitively, order-independent):
//
//   N chamado, NOME, ID, CPF, CURSO, TURMA, Código da oferta, Data,
//   retorno (Previsão)
//
// A "N req." column, if present, is ignored: sequence numbers always come
// from the ledger, never from intake files.
//
// =============================================================================

package intake

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edu-secretaria/requerimento/internal/types"
)

// Row is one pending submission read from an intake file.
type Row struct {
	// Line is the 1-based line number in the source file, for reporting.
	Line int

	// Raw is the submission exactly as read; validation happens later in
	// the normal pipeline.
	Raw types.RawSubmission
}

// headerKeys maps normalized header names onto RawSubmission setters.
var headerKeys = map[string]func(*types.RawSubmission, string){
	"n chamado":          func(r *types.RawSubmission, v string) { r.Chamado = v },
	"nome":               func(r *types.RawSubmission, v string) { r.Nome = v },
	"id":                 func(r *types.RawSubmission, v string) { r.ID = v },
	"cpf":                func(r *types.RawSubmission, v string) { r.CPF = v },
	"curso":              func(r *types.RawSubmission, v string) { r.Curso = v },
	"turma":              func(r *types.RawSubmission, v string) { r.Turma = v },
	"código da oferta":   func(r *types.RawSubmission, v string) { r.Oferta = v },
	"codigo da oferta":   func(r *types.RawSubmission, v string) { r.Oferta = v },
	"data":               func(r *types.RawSubmission, v string) { r.Data = v },
	"retorno (previsão)": func(r *types.RawSubmission, v string) { r.Retorno = v },
	"retorno (previsao)": func(r *types.RawSubmission, v string) { r.Retorno = v },
	"retorno":            func(r *types.RawSubmission, v string) { r.Retorno = v },
}

// ReadFile reads every submission row from a CSV intake file.
//
// PARAMETERS:
//   - path: the CSV file path.
//   - delimiter: the field separator; 0 means comma.
//
// RETURNS:
//   - The rows in file order.
//   - An error when the file cannot be read, has no header, or has a header
//     with no recognized columns.
func ReadFile(path string, delimiter rune) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open intake file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(bufio.NewReader(f))
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	// Rows may legitimately omit trailing optional columns.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("intake file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	setters := make([]func(*types.RawSubmission, string), len(header))
	recognized := 0
	for i, name := range header {
		if set, ok := headerKeys[normalizeHeader(name)]; ok {
			setters[i] = set
			recognized++
		}
	}
	if recognized == 0 {
		return nil, fmt.Errorf("intake header has no recognized columns")
	}

	var rows []Row
	line := 1
	for {
		cells, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if allEmpty(cells) {
			continue
		}

		var raw types.RawSubmission
		for i, v := range cells {
			if i < len(setters) && setters[i] != nil {
				setters[i](&raw, strings.TrimSpace(v))
			}
		}
		rows = append(rows, Row{Line: line, Raw: raw})
	}

	return rows, nil
}

// normalizeHeader lowercases and trims a header cell, including a possible
// UTF-8 BOM on the first column.
func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\uFEFF")
	return strings.ToLower(strings.TrimSpace(name))
}

// allEmpty checks if a row contains only empty cells.
func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
