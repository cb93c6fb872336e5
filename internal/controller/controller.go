// =============================================================================
// Requerimento - Submission Controller
// =============================================================================
//
// The controller orchestrates one submission end to end:
//
//   input -> Validator -> Record Builder (duplicate check + sequence)
//         -> Ledger Store append -> Document Emitter
//
// It tracks no state beyond the current submission and is safe to invoke
// repeatedly and sequentially; overlapping concurrent submissions are not
// intended (the whole system is single-user, single-machine).
//
// ERROR PROPAGATION:
//   - *validation.FieldError: recoverable, surfaced to the user who fixes
//     the field and resubmits.
//   - *ledger.StoreError: aborts the submission; recoverable by closing
//     whatever else holds the ledger open.
//   - Conversion problems: never errors, reported via Result.Warnings.
//
// =============================================================================

package controller

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/document"
	"github.com/edu-secretaria/requerimento/internal/ledger"
	"github.com/edu-secretaria/requerimento/internal/record"
	"github.com/edu-secretaria/requerimento/internal/types"
	"github.com/edu-secretaria/requerimento/internal/validation"
)

// Controller runs submissions against one configuration.
type Controller struct {
	cfg        *config.Config
	log        *zap.Logger
	converters []document.Converter
}

// New creates a Controller with the default conversion cascade.
func New(cfg *config.Config, log *zap.Logger) *Controller {
	return NewWithConverters(cfg, log, document.DefaultConverters())
}

// NewWithConverters creates a Controller with a custom conversion cascade.
// Tests inject fake converters through this.
func NewWithConverters(cfg *config.Config, log *zap.Logger, converters []document.Converter) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{cfg: cfg, log: log, converters: converters}
}

// Submit runs one submission.
//
// RETURNS:
//   - The Result in a terminal emission state on success (including partial
//     success, where only the primary document was produced).
//   - A *validation.FieldError or *ledger.StoreError on failure.
func (c *Controller) Submit(raw types.RawSubmission) (*types.Result, error) {
	start := time.Now()
	id := uuid.NewString()
	log := c.log.With(zap.String("submission_id", id))

	log.Info("submission started", zap.String("sigla", c.cfg.Sigla))

	// Step 1: validate and normalize the input fields.
	sub, err := validation.New(c.cfg).Normalize(raw)
	if err != nil {
		log.Warn("validation failed", zap.Error(err))
		return nil, err
	}

	// Step 2: open the ledger and resolve the record's sequence number.
	store, err := ledger.LoadOrCreate(c.cfg.LedgerPath())
	if err != nil {
		log.Error("ledger unavailable", zap.Error(err))
		return nil, err
	}
	defer store.Close()

	rec, reused, err := record.NewBuilder(store).Build(sub)
	if err != nil {
		log.Error("ledger write failed", zap.Error(err))
		return nil, err
	}
	if reused {
		log.Info("record already in ledger, reusing sequence",
			zap.Int("protocolo", rec.Protocolo))
	} else {
		log.Info("record appended",
			zap.Int("protocolo", rec.Protocolo),
			zap.String("ledger", store.Path()))

		// Track the issued number in the configuration. Informational
		// only; a failure here never fails the submission.
		c.cfg.LastReq = rec.Protocolo
		if err := c.cfg.Save(); err != nil {
			log.Warn("could not persist last_req", zap.Error(err))
		}
	}

	// Step 3: emit the document(s).
	emitted, err := document.NewEmitterWithConverters(c.cfg, log, c.converters).Emit(rec)
	if err != nil {
		log.Error("document emission failed", zap.Error(err))
		return nil, err
	}

	res := &types.Result{
		SubmissionID:  id,
		Protocolo:     rec.Protocolo,
		Reused:        reused,
		LedgerPath:    store.Path(),
		PrimaryPath:   emitted.PrimaryPath,
		SecondaryPath: emitted.SecondaryPath,
		State:         emitted.State,
		Warnings:      emitted.Warnings,
	}

	log.Info("submission finished",
		zap.Int("protocolo", res.Protocolo),
		zap.Bool("reused", res.Reused),
		zap.String("state", res.State.String()),
		zap.Duration("elapsed", time.Since(start)))

	return res, nil
}
