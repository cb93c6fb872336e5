// =============================================================================
// Requerimento - Document Emitter
// =============================================================================
//
// Given a ledger record, this module fills the document template and
// best-effort converts the result to the secondary format (PDF).
//
// OUTPUT NAMING:
//   Both outputs share the deterministic base name
//     <zero-padded sequence><SIGLA><YEAR> <full name>
//   e.g. "01MCI2025 Ana Silva.docx" / "01MCI2025 Ana Silva.pdf".
//
// TEMPLATE KINDS:
//   - .docx templates are filled through the docx library, replacing
//     {{placeholder}} markers in the document body.
//   - Any other extension is treated as a UTF-8 text template with the same
//     markers. Sites without Word templates (and the test suite) use this.
//
// STATE MACHINE:
//   NotStarted -> PrimaryWritten -> ConversionAttempted
//     -> ConversionSucceeded | ConversionSkipped
//   Both terminal states are overall success; a skipped conversion is
//   reported as a warning, never a fatal error.
//
// =============================================================================

package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/types"
	"github.com/edu-secretaria/requerimento/internal/validation"
	"github.com/edu-secretaria/requerimento/pkg/utils"
)

// =============================================================================
// EMITTER
// =============================================================================

// EmitResult describes what the emitter produced for one record.
type EmitResult struct {
	// PrimaryPath is the filled template document.
	PrimaryPath string

	// SecondaryPath is the converted document, empty when conversion was
	// skipped.
	SecondaryPath string

	// State is the terminal emission state.
	State types.EmitState

	// Warnings lists non-fatal problems, e.g. unavailable converters.
	Warnings []string
}

// Emitter fills templates and runs the conversion cascade.
type Emitter struct {
	outputDir  string
	template   string
	sigla      string
	ano        string
	converters []Converter
	log        *zap.Logger
}

// NewEmitter creates an Emitter for the given configuration using the
// default converter cascade.
func NewEmitter(cfg *config.Config, log *zap.Logger) *Emitter {
	return NewEmitterWithConverters(cfg, log, DefaultConverters())
}

// NewEmitterWithConverters creates an Emitter with a custom converter
// cascade. Tests use this to inject fake converters.
func NewEmitterWithConverters(cfg *config.Config, log *zap.Logger, converters []Converter) *Emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{
		outputDir:  cfg.OutputDir,
		template:   cfg.Template,
		sigla:      config.SanitizeSigla(cfg.Sigla),
		ano:        cfg.Ano,
		converters: converters,
		log:        log,
	}
}

// BaseName returns the deterministic output base name (no extension) for a
// record: "<%02d sequence><SIGLA><YEAR> <full name>".
func (e *Emitter) BaseName(rec *types.Record) string {
	return fmt.Sprintf("%02d%s%s %s", rec.Protocolo, e.sigla, e.ano, utils.SafeFileName(rec.Nome))
}

// =============================================================================
// EMISSION
// =============================================================================

// Emit produces the primary document for the record and attempts the
// secondary-format conversion.
//
// Re-emission is cheap: when the secondary document for this sequence
// already exists it is returned as-is, and when only the primary exists the
// template is not re-filled, conversion is just retried.
//
// RETURNS:
//   - The EmitResult in a terminal state on success.
//   - An error when the template cannot be read or the primary document
//     cannot be written. Conversion failures are warnings, not errors.
func (e *Emitter) Emit(rec *types.Record) (*EmitResult, error) {
	if err := utils.EnsureDir(e.outputDir); err != nil {
		return nil, err
	}

	base := e.BaseName(rec)
	primary := filepath.Join(e.outputDir, base+filepath.Ext(e.template))
	secondary := filepath.Join(e.outputDir, base+".pdf")

	res := &EmitResult{State: types.NotStarted}

	// Reuse a previously converted document wholesale.
	if utils.FileExists(secondary) {
		e.log.Debug("secondary document already exists, reusing",
			zap.String("path", secondary))
		res.State = types.ConversionSucceeded
		res.SecondaryPath = secondary
		if utils.FileExists(primary) {
			res.PrimaryPath = primary
		}
		return res, nil
	}

	if utils.FileExists(primary) {
		e.log.Debug("primary document already exists, skipping template fill",
			zap.String("path", primary))
	} else {
		if err := e.fillTemplate(primary, placeholders(rec, e.sigla, e.ano)); err != nil {
			return nil, fmt.Errorf("failed to generate document: %w", err)
		}
	}
	res.State = types.PrimaryWritten
	res.PrimaryPath = primary

	// Conversion cascade: first mechanism that succeeds wins; if all fail
	// or are unavailable the primary document stands alone.
	res.State = types.ConversionAttempted
	for _, conv := range e.converters {
		if !conv.Available() {
			continue
		}
		if err := conv.Convert(primary, secondary); err != nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("converter %s failed: %v", conv.Name(), err))
			e.log.Warn("conversion attempt failed",
				zap.String("converter", conv.Name()), zap.Error(err))
			continue
		}
		if utils.FileExists(secondary) {
			res.State = types.ConversionSucceeded
			res.SecondaryPath = secondary
			return res, nil
		}
	}

	res.State = types.ConversionSkipped
	res.Warnings = append(res.Warnings,
		"secondary format not produced: no conversion mechanism available")
	return res, nil
}

// =============================================================================
// TEMPLATE FILLING
// =============================================================================

// fillTemplate fills the configured template into outPath, replacing every
// {{key}} marker with its value.
func (e *Emitter) fillTemplate(outPath string, repl map[string]string) error {
	if !utils.FileExists(e.template) {
		return fmt.Errorf("template %s not found", e.template)
	}

	if strings.EqualFold(filepath.Ext(e.template), ".docx") {
		return fillDocx(e.template, outPath, repl)
	}
	return fillText(e.template, outPath, repl)
}

// fillDocx substitutes placeholders in a .docx template.
func fillDocx(tplPath, outPath string, repl map[string]string) error {
	r, err := docx.ReadDocxFile(tplPath)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	for key, value := range repl {
		if err := doc.Replace("{{"+key+"}}", value, -1); err != nil {
			return fmt.Errorf("failed to replace {{%s}}: %w", key, err)
		}
	}

	if err := doc.WriteToFile(outPath); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// fillText substitutes placeholders in a plain-text template.
func fillText(tplPath, outPath string, repl map[string]string) error {
	data, err := os.ReadFile(tplPath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	pairs := make([]string, 0, len(repl)*2)
	for key, value := range repl {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	filled := strings.NewReplacer(pairs...).Replace(string(data))

	if err := os.WriteFile(outPath, []byte(filled), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// =============================================================================
// PLACEHOLDERS
// =============================================================================

// meses holds the Portuguese month names for the long date form used by the
// request templates.
var meses = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// LongDate renders a date in the Portuguese long form, e.g.
// "2 de março de 2025". The zero time renders as "".
func LongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), meses[t.Month()-1], t.Year())
}

// shortDate renders a date as DD/MM/YYYY; the zero time renders as "".
func shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// placeholders builds the substitution map for a record. Field formatting
// for documents: dates as DD/MM/YYYY (plus the Portuguese long form), the
// tax identifier in its canonical display mask.
func placeholders(rec *types.Record, sigla, ano string) map[string]string {
	return map[string]string{
		"protocolo":       fmt.Sprintf("%02d", rec.Protocolo),
		"nome":            rec.Nome,
		"id":              rec.ID,
		"cpf":             validation.FormatCPF(rec.CPF),
		"curso":           rec.Curso,
		"turma":           rec.Turma,
		"oferta":          rec.Oferta,
		"chamado":         rec.Chamado,
		"sigla":           sigla,
		"ano":             ano,
		"data":            shortDate(rec.Data),
		"retorno":         shortDate(rec.Retorno),
		"data_extenso":    LongDate(rec.Data),
		"retorno_extenso": LongDate(rec.Retorno),
	}
}
