// =============================================================================
// Requerimento - Record Builder
// =============================================================================
//
// The builder composes a ledger Record from a normalized submission. It is
// where the "regenerate without duplicating" behavior lives:
//
//   - If a row with identical (name, identifier, tax identifier, date)
//     already exists, its sequence number is reused and no new row is
//     appended. The caller proceeds straight to document emission.
//   - Otherwise the store assigns the next sequence number and appends the
//     row in one atomic operation.
//
// Sequence numbers are never recycled. If rows are deleted from the ledger
// outside this system, subsequent numbering will collide with previously
// issued numbers; that is a documented limitation, not something defended
// against here.
//
// =============================================================================

package record

import (
	"time"

	"github.com/edu-secretaria/requerimento/internal/ledger"
	"github.com/edu-secretaria/requerimento/internal/types"
)

// Builder assembles records against one ledger store.
type Builder struct {
	store *ledger.Store

	// now is the clock used to inject the submission date when the user
	// left it empty. Overridable in tests.
	now func() time.Time
}

// NewBuilder creates a Builder over the given store.
func NewBuilder(store *ledger.Store) *Builder {
	return &Builder{store: store, now: time.Now}
}

// Build turns a normalized submission into a Record, consulting the ledger
// for duplicates.
//
// RETURNS:
//   - The record, carrying either the reused or the freshly assigned
//     sequence number.
//   - reused=true when an existing row matched and nothing was appended.
//   - A StoreError when the ledger cannot be read or written.
func (b *Builder) Build(sub types.Submission) (*types.Record, bool, error) {
	data := sub.Data
	if data.IsZero() {
		// Date not supplied: default to the current date at submission time.
		data = truncateToDay(b.now())
	}

	rec := &types.Record{
		Nome:    sub.Nome,
		Chamado: sub.Chamado,
		ID:      sub.ID,
		CPF:     sub.CPF,
		Curso:   sub.Curso,
		Turma:   sub.Turma,
		Oferta:  sub.Oferta,
		Data:    data,
		Retorno: sub.Retorno,
	}

	seq, found, err := b.store.Exists(sub.Nome, sub.ID, sub.CPF, data)
	if err != nil {
		return nil, false, err
	}
	if found {
		rec.Protocolo = seq
		return rec, true, nil
	}

	if _, err := b.store.Append(rec); err != nil {
		return nil, false, err
	}
	return rec, false, nil
}

// truncateToDay drops the time-of-day portion so ledger comparisons work on
// calendar dates.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
