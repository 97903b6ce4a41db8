// Package config loads weekgrid settings and constraints files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
)

type Config struct {
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
	Solver  SolverConfig  `json:"solver"`
	Metrics MetricsConfig `json:"metrics"`
}

type StorageConfig struct {
	// DSN is a sqlite path, a .json data file, a postgres:// URL, or
	// "keyring" to read the URL from the OS keyring.
	DSN string `json:"dsn" validate:"required"`
}

type LogConfig struct {
	Debug bool   `json:"debug"`
	Dir   string `json:"dir"`
}

type SolverConfig struct {
	MaxNodes int64         `json:"max_nodes" validate:"gte=0"`
	Timeout  time.Duration `json:"timeout" validate:"gte=0"`
}

type MetricsConfig struct {
	// Textfile, when set, receives solver metrics in the Prometheus text
	// format after every solve.
	Textfile string `json:"textfile"`
}

func (c *Config) SetDefaults() {
	if c.Storage.DSN == "" {
		c.Storage.DSN = constants.DefaultConfigPath
	}
	if c.Log.Dir == "" {
		c.Log.Dir = constants.DefaultConfigDir
	}
	if c.Solver.MaxNodes == 0 {
		c.Solver.MaxNodes = constants.DefaultMaxNodes
	}
	if c.Solver.Timeout == 0 {
		c.Solver.Timeout = constants.DefaultSolveTimeout
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// Load reads path when it exists, applies WEEKGRID_* environment overrides
// (nested keys use "__", e.g. WEEKGRID_STORAGE__DSN) and fills defaults. A
// .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		path = ExpandHome(path)
		if _, err := os.Stat(path); err == nil {
			parser, err := parserFor(path)
			if err != nil {
				return nil, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	prefix := strings.ToLower(constants.EnvPrefix)
	if err := k.Load(env.Provider(constants.EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), prefix)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.SetDefaults()
	cfg.Storage.DSN = ExpandHome(cfg.Storage.DSN)
	cfg.Log.Dir = ExpandHome(cfg.Log.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// constraintsDelim never occurs in activity names, so per-activity override
// keys stay whole.
const constraintsDelim = "\x00"

// LoadConstraints reads a YAML or JSON constraints file. The flat legacy
// layout is accepted; see models.Constraints.
func LoadConstraints(path string) (models.Constraints, error) {
	path = ExpandHome(path)
	parser, err := parserFor(path)
	if err != nil {
		return models.Constraints{}, err
	}

	k := koanf.NewWithConf(koanf.Conf{Delim: constraintsDelim})
	if err := k.Load(file.Provider(path), parser); err != nil {
		return models.Constraints{}, fmt.Errorf("failed to read constraints %s: %w", path, err)
	}

	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return models.Constraints{}, fmt.Errorf("failed to re-encode constraints: %w", err)
	}
	var c models.Constraints
	if err := json.Unmarshal(raw, &c); err != nil {
		return models.Constraints{}, fmt.Errorf("failed to decode constraints: %w", err)
	}
	return c, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultPath is the config file looked up when --config-file is not given.
func DefaultPath() string {
	return filepath.Join(ExpandHome(constants.DefaultConfigDir), "config.yaml")
}
