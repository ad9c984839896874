// Package config loads the application settings from config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/aerissecure/contractfill/mapping"
	"github.com/aerissecure/contractfill/office"
)

const FileName = "config.toml"

// Environment overrides.
const (
	EnvTemplatePath  = "CONTRATORPA_TEMPLATE_PATH"
	EnvOfficeBackend = "CONTRATORPA_OFFICE_BACKEND"
	EnvSofficePath   = "CONTRATORPA_SOFFICE_PATH"
)

const (
	BackendSoffice = "soffice"
	BackendNative  = "native"
)

type AppConfig struct {
	Paths  PathsConfig  `toml:"paths"`
	Office OfficeConfig `toml:"office"`
	Log    LogConfig    `toml:"log"`
	Export ExportConfig `toml:"export"`
}

type PathsConfig struct {
	Template  string `toml:"template"`
	Workbook  string `toml:"workbook"`
	OutputDir string `toml:"output_dir"`
	Mapping   string `toml:"mapping"` // optional YAML marker table
}

type OfficeConfig struct {
	Backend string `toml:"backend"` // soffice | native
	Soffice string `toml:"soffice"` // binary path; empty searches PATH
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty disables the log file
}

type ExportConfig struct {
	Ranges []office.PrintRange `toml:"ranges"`
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		Paths: PathsConfig{
			Template:  filepath.Join("data", "input", "model_contract.docx"),
			Workbook:  filepath.Join("data", "input", "template_spreadsheet.xlsx"),
			OutputDir: filepath.Join("data", "output"),
		},
		Office: OfficeConfig{
			Backend: BackendSoffice,
		},
		Log: LogConfig{
			Level: "info",
			File:  "contrato_rpa.log",
		},
		Export: ExportConfig{
			Ranges: office.DefaultRanges(),
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Load reads path, or config.toml next to the executable when path is
// empty. A missing default file yields the defaults; a missing explicit
// file is an error. Relative paths in the result are resolved against the
// directory holding the config file.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		path = filepath.Join(exeDir, FileName)
	}
	baseDir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Ranges listed in the file replace the defaults wholesale.
		cfg.Export.Ranges = nil
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if cfg.Export.Ranges == nil {
			cfg.Export.Ranges = office.DefaultRanges()
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, err
	}

	applyEnv(cfg)
	cfg.resolve(baseDir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvTemplatePath); v != "" {
		cfg.Paths.Template = v
	}
	if v := os.Getenv(EnvOfficeBackend); v != "" {
		cfg.Office.Backend = v
	}
	if v := os.Getenv(EnvSofficePath); v != "" {
		cfg.Office.Soffice = v
	}
}

func (c *AppConfig) resolve(baseDir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.Paths.Template = abs(c.Paths.Template)
	c.Paths.Workbook = abs(c.Paths.Workbook)
	c.Paths.OutputDir = abs(c.Paths.OutputDir)
	c.Paths.Mapping = abs(c.Paths.Mapping)
	if c.Log.File != "" && !filepath.IsAbs(c.Log.File) {
		c.Log.File = filepath.Join(c.Paths.OutputDir, c.Log.File)
	}
}

func (c *AppConfig) Validate() error {
	var errs []error
	switch c.Office.Backend {
	case BackendSoffice, BackendNative:
	default:
		errs = append(errs, fmt.Errorf("office.backend must be %q or %q, got %q", BackendSoffice, BackendNative, c.Office.Backend))
	}
	files := map[string]bool{}
	for i, r := range c.Export.Ranges {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("export.ranges[%d]: %w", i, err))
		}
		if files[r.File] {
			errs = append(errs, fmt.Errorf("export.ranges[%d]: file %q used twice", i, r.File))
		}
		files[r.File] = true
	}
	return errors.Join(errs...)
}

// Mapping returns the marker table: the YAML override when configured,
// the built-in table otherwise.
func (c *AppConfig) Mapping() (mapping.Mapping, error) {
	if c.Paths.Mapping == "" {
		return mapping.Default(), nil
	}
	return mapping.Load(c.Paths.Mapping)
}

// Save writes cfg to path.
func Save(cfg *AppConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
