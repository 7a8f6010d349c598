// Package config loads batch settings from the environment and an optional .env file
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	fxerrors "github.com/provide-io/fixturegen/pkg/fixture/errors"
	"github.com/provide-io/fixturegen/pkg/utils/permissions"
)

// Environment variables read by Load
const (
	EnvOutputPath = "OUTPUT_PATH"
	EnvNumFiles   = "NUM_FILES"
	EnvMaxSizeMB  = "MAX_FILE_SIZE_MB"
	EnvWorkers    = "FIXTUREGEN_WORKERS"
	EnvFormats    = "FIXTUREGEN_FORMATS"
	EnvSeed       = "FIXTUREGEN_SEED"
	EnvFileMode   = "FIXTUREGEN_FILE_MODE"
	EnvManifest   = "FIXTUREGEN_MANIFEST"
)

const (
	DefaultOutputPath = "./generated_files"
	DefaultNumFiles   = 10
	DefaultMaxSizeMB  = 1.0
	// MaxSizeCapMB is the largest per-file budget accepted; larger values are capped.
	MaxSizeCapMB = 100.0
)

// Config holds the settings of one batch run
type Config struct {
	OutputPath    string
	NumFiles      int
	MaxFileSizeMB float64
	Workers       int
	Formats       []string
	Seed          uint64
	FileMode      os.FileMode
	ManifestPath  string
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		OutputPath:    DefaultOutputPath,
		NumFiles:      DefaultNumFiles,
		MaxFileSizeMB: DefaultMaxSizeMB,
		FileMode:      permissions.DefaultFilePerms,
	}
}

// Load reads envFile (missing is fine; "" means ".env") and then the environment on top
// of the defaults. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()

	if v := os.Getenv(EnvOutputPath); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv(EnvNumFiles); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvNumFiles, v, err)
		}
		cfg.NumFiles = n
	}
	if v := os.Getenv(EnvMaxSizeMB); v != "" {
		mb, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %v", fxerrors.ErrInvalidBudget, EnvMaxSizeMB, v, err)
		}
		cfg.MaxFileSizeMB = mb
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvFormats); v != "" {
		cfg.Formats = SplitFormats(v)
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv(EnvFileMode); v != "" {
		mode, err := permissions.ParseFileMode(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFileMode, err)
		}
		cfg.FileMode = mode
	}
	if v := os.Getenv(EnvManifest); v != "" {
		cfg.ManifestPath = v
	}

	return cfg, nil
}

// SplitFormats parses a comma or space separated format list
func SplitFormats(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(strings.TrimPrefix(f, ".")))
	}
	return out
}

// Validate checks the settings and normalizes them in place. Sizes above MaxSizeCapMB
// are capped with a warning; zero workers means one per CPU.
func (c *Config) Validate(logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if math.IsNaN(c.MaxFileSizeMB) || math.IsInf(c.MaxFileSizeMB, 0) || c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("%w: max file size must be a positive number of MB, got %v",
			fxerrors.ErrInvalidBudget, c.MaxFileSizeMB)
	}
	if c.MaxFileSizeMB > MaxSizeCapMB {
		logger.Warn("⚠️ Max file size exceeds cap, using cap",
			"requested_mb", c.MaxFileSizeMB,
			"cap_mb", MaxSizeCapMB)
		c.MaxFileSizeMB = MaxSizeCapMB
	}

	if c.NumFiles < 1 {
		return fmt.Errorf("number of files must be at least 1, got %d", c.NumFiles)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Workers > c.NumFiles {
		c.Workers = c.NumFiles
	}

	if c.FileMode == 0 {
		c.FileMode = permissions.DefaultFilePerms
	}
	if !permissions.IsWritable(uint16(c.FileMode.Perm())) {
		logger.Warn("⚠️ File mode is not owner-writable", "mode", permissions.FormatOctal(uint16(c.FileMode.Perm())))
	}

	return nil
}

// BudgetBytes is the per-file budget in bytes
func (c *Config) BudgetBytes() uint64 {
	return uint64(c.MaxFileSizeMB * 1024 * 1024)
}
