// =============================================================================
// Requerimento - Secondary Format Conversion
// =============================================================================
//
// The secondary output format is produced through OS-level converters. Up to
// three distinct mechanisms are attempted in order; the first that succeeds
// wins. When all are unavailable or fail, the primary document is kept and
// the conversion is skipped with a warning.
//
// DEFAULT CASCADE:
//   1. soffice      (LibreOffice headless, the usual binary name)
//   2. libreoffice  (distributions that only ship the long name)
//   3. unoconv      (standalone UNO bridge converter)
//
// There is no time budget: the cascade is bounded by the number of
// mechanisms, not by a timeout.
//
// =============================================================================

package document

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Converter is one secondary-format conversion mechanism.
type Converter interface {
	// Name identifies the mechanism in warnings and logs.
	Name() string

	// Available reports whether the mechanism can run on this machine.
	Available() bool

	// Convert produces dst from src. A nil return with no dst file present
	// still counts as a failed attempt.
	Convert(src, dst string) error
}

// =============================================================================
// EXEC-BASED CONVERTERS
// =============================================================================

// execConverter shells out to an external conversion binary.
type execConverter struct {
	bin  string
	args func(src, dst string) []string
}

func (c *execConverter) Name() string { return c.bin }

func (c *execConverter) Available() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}

func (c *execConverter) Convert(src, dst string) error {
	out, err := exec.Command(c.bin, c.args(src, dst)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", c.bin, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// sofficeStyle builds the argument list for LibreOffice-style binaries,
// which place the converted file in --outdir under the source base name.
func sofficeStyle(src, dst string) []string {
	return []string{
		"--headless",
		"--convert-to", "pdf",
		"--outdir", filepath.Dir(dst),
		src,
	}
}

// DefaultConverters returns the standard conversion cascade.
func DefaultConverters() []Converter {
	return []Converter{
		&execConverter{bin: "soffice", args: sofficeStyle},
		&execConverter{bin: "libreoffice", args: sofficeStyle},
		&execConverter{bin: "unoconv", args: func(src, dst string) []string {
			return []string{"-f", "pdf", "-o", dst, src}
		}},
	}
}

// =============================================================================
// TEST SUPPORT
// =============================================================================

// FuncConverter adapts plain functions into a Converter. Used by tests and
// by callers that embed their own conversion step.
type FuncConverter struct {
	// ConverterName identifies the mechanism.
	ConverterName string

	// AvailableFunc reports availability; nil means always available.
	AvailableFunc func() bool

	// ConvertFunc performs the conversion.
	ConvertFunc func(src, dst string) error
}

func (f *FuncConverter) Name() string { return f.ConverterName }

func (f *FuncConverter) Available() bool {
	if f.AvailableFunc == nil {
		return true
	}
	return f.AvailableFunc()
}

func (f *FuncConverter) Convert(src, dst string) error {
	if f.ConvertFunc == nil {
		return os.ErrInvalid
	}
	return f.ConvertFunc(src, dst)
}
