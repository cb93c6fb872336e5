// =============================================================================
// Requerimento - File Manager Utility
// =============================================================================
//
// Small file helpers shared by the ledger store and the document emitter:
//   - Directory management
//   - File existence checks
//   - File naming sanitization
//   - File copying
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// EnsureDir creates the directory (and any parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// fileNameSanitizer strips characters that are invalid in file names on at
// least one supported platform.
var fileNameSanitizer = strings.NewReplacer(
	"/", "", "\\", "", ":", "", "*", "", "?", "",
	"\"", "", "<", "", ">", "", "|", "",
)

// SafeFileName removes path separators and other characters that cannot
// appear in a file name. Interior spaces are preserved: generated document
// names intentionally contain the student's name.
func SafeFileName(name string) string {
	return strings.TrimSpace(fileNameSanitizer.Replace(name))
}

// CopyFile copies src to dst, overwriting dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	return out.Sync()
}
