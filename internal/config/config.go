// =============================================================================
// Requerimento - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. Settings come
// from three layers, lowest precedence first:
//
//   1. Built-in defaults
//   2. The YAML configuration file (default: config.yaml)
//   3. Environment variables with the MCI_ prefix
//
// ENVIRONMENT OVERRIDES:
//   MCI_CONFIG  - alternate configuration file path
//   MCI_ANO     - protocol year
//   MCI_DOCX    - template document path
//   MCI_SAIDAS  - output directory for generated documents
//   MCI_XLSX    - forced ledger file path (otherwise MALA<SIGLA>.xlsx)
//   MCI_SIGLA   - default sigla when the configuration file has none
//
// A .env file in the working directory is loaded (via godotenv) before any
// environment variable is read, so site operators can keep overrides next to
// the binary.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// ConfigError indicates a malformed configuration file or an invalid
// override value. It is fatal at startup.
type ConfigError struct {
	// Reason is a human-readable description of the problem.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Lengths holds the required fixed lengths for validated fields.
type Lengths struct {
	// CPF is the required digit count for the national tax identifier.
	// Canonical value: 11.
	CPF int `yaml:"cpf_len"`

	// ID is the required digit count for the student identifier.
	// Default: 10.
	ID int `yaml:"id_len"`

	// Oferta is the required length for the offer code.
	// Default: 10.
	Oferta int `yaml:"oferta_len"`
}

// Config holds the application configuration. It is loaded once at startup
// and threaded explicitly into the controller; there is no ambient mutable
// global.
type Config struct {
	// =========================================================================
	// PROTOCOL SETTINGS
	// =========================================================================

	// Sigla is the short code identifying the unit/program. It is embedded
	// in the ledger file name and in generated document names.
	// Sanitized to [A-Z0-9]+; default "MCI".
	Sigla string `yaml:"sigla"`

	// Ano is the protocol year used in file names.
	Ano string `yaml:"ano"`

	// Valid holds the fixed-length validation settings.
	Valid Lengths `yaml:"valid"`

	// LastReq is the last sequence number issued. Purely informational:
	// it is written back after each append but never consulted for
	// numbering. The ledger row count is the single source of truth.
	LastReq int `yaml:"last_req"`

	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// Template is the path to the document template.
	Template string `yaml:"template"`

	// OutputDir is the directory where generated documents are placed.
	// Default: "Requerimentos"
	OutputDir string `yaml:"output_dir"`

	// LedgerFile forces a specific ledger file path. When empty the ledger
	// is MALA<SIGLA>.xlsx in the working directory.
	LedgerFile string `yaml:"ledger_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. Empty disables
	// file logging.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// path is the file the configuration was loaded from, kept for Save.
	path string
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultSigla is used when neither the file nor MCI_SIGLA supplies one.
	DefaultSigla = "MCI"

	// DefaultAno is used when neither the file nor MCI_ANO supplies one.
	DefaultAno = "2025"

	// DefaultTemplate is the request template file name distributed to the
	// secretariats.
	DefaultTemplate = "anexo_geduc_se_requerimento_amparo_legall.docx"

	// DefaultOutputDir is where generated documents are placed.
	DefaultOutputDir = "Requerimentos"
)

// siglaPattern strips everything that is not an uppercase letter or digit.
var siglaPattern = regexp.MustCompile(`[^A-Z0-9]`)

// SanitizeSigla normalizes a sigla: uppercase, [A-Z0-9] only, falling back
// to DefaultSigla when nothing remains.
func SanitizeSigla(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = siglaPattern.ReplaceAllString(s, "")
	if s == "" {
		return DefaultSigla
	}
	return s
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from the given path, applying defaults and
// environment overrides. A missing file is not an error: on first run the
// defaults apply and the file is written on the first Save.
//
// PARAMETERS:
//   - path: the configuration file path (MCI_CONFIG takes precedence).
//
// RETURNS:
//   - The assembled Config.
//   - A ConfigError if the file is malformed or a value is invalid.
func Load(path string) (*Config, error) {
	// Load .env (if present) so the MCI_ variables below can come from it.
	// A missing .env is the normal case and is ignored.
	_ = godotenv.Load()

	if forced := strings.TrimSpace(os.Getenv("MCI_CONFIG")); forced != "" {
		path = forced
	}

	cfg := &Config{path: path}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("failed to parse %s", path), Err: err}
		}
	} else if !os.IsNotExist(err) {
		return nil, &ConfigError{Reason: fmt.Sprintf("failed to read %s", path), Err: err}
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	if c.Sigla == "" {
		c.Sigla = envOr("MCI_SIGLA", DefaultSigla)
	}
	c.Sigla = SanitizeSigla(c.Sigla)

	if c.Ano == "" {
		c.Ano = DefaultAno
	}
	if c.Valid.CPF == 0 {
		c.Valid.CPF = 11
	}
	if c.Valid.ID == 0 {
		c.Valid.ID = 10
	}
	if c.Valid.Oferta == 0 {
		c.Valid.Oferta = 10
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// applyEnvOverrides applies the MCI_ environment variables. These take
// precedence over the configuration file.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("MCI_ANO")); v != "" {
		c.Ano = v
	}
	if v := strings.TrimSpace(os.Getenv("MCI_DOCX")); v != "" {
		c.Template = v
	}
	if v := strings.TrimSpace(os.Getenv("MCI_SAIDAS")); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("MCI_XLSX")); v != "" {
		c.LedgerFile = v
	}
}

// validate checks the assembled configuration for invalid values.
func (c *Config) validate() error {
	for _, digit := range c.Ano {
		if digit < '0' || digit > '9' {
			return &ConfigError{Reason: fmt.Sprintf("ano %q is not numeric", c.Ano)}
		}
	}
	if c.Valid.CPF <= 0 || c.Valid.ID <= 0 || c.Valid.Oferta <= 0 {
		return &ConfigError{Reason: "validation lengths must be positive"}
	}
	if c.LastReq < 0 {
		return &ConfigError{Reason: "last_req must not be negative"}
	}
	return nil
}

// envOr returns the trimmed value of the environment variable, or the
// fallback when it is empty or unset.
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// =============================================================================
// DERIVED PATHS
// =============================================================================

// LedgerPath returns the ledger file path: the forced path when configured
// (or overridden via MCI_XLSX), otherwise MALA<SIGLA>.xlsx.
func (c *Config) LedgerPath() string {
	if c.LedgerFile != "" {
		return c.LedgerFile
	}
	return fmt.Sprintf("MALA%s.xlsx", SanitizeSigla(c.Sigla))
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the persistent parts of the configuration back to the file it
// was loaded from. Called after a successful append so last_req tracks the
// ledger; failures are reported but are never fatal to a submission.
func (c *Config) Save() error {
	if c.path == "" {
		return &ConfigError{Reason: "no configuration file path to save to"}
	}

	out := *c
	out.Sigla = SanitizeSigla(c.Sigla)

	data, err := yaml.Marshal(&out)
	if err != nil {
		return &ConfigError{Reason: "failed to encode configuration", Err: err}
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &ConfigError{Reason: "failed to create config directory", Err: err}
		}
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return &ConfigError{Reason: fmt.Sprintf("failed to write %s", c.path), Err: err}
	}

	return nil
}

// Path returns the configuration file path this Config was loaded from.
func (c *Config) Path() string { return c.path }
