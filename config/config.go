package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/spiretools/runlex/internal/fileutil"
)

const (
	ConfigDir      = ".runlex"
	ConfigFileName = "config.yaml"
	TallyFileName  = "tallies.gob"
	IgnoreFileName = ".runlexignore"
)

type Config struct {
	Version int         `yaml:"version"`
	Logs    LogsConfig  `yaml:"logs"`
	Store   StoreConfig `yaml:"store"`
	Batch   BatchConfig `yaml:"batch"`
	Watch   WatchConfig `yaml:"watch"`
	Ignore  []string    `yaml:"ignore"`
}

// LogsConfig locates the run log files relative to the project root.
type LogsConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"` // filename glob, e.g. *.json
}

type StoreConfig struct {
	Backend  string         `yaml:"backend"` // gob | postgres
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"` // parallel file workers (default: NumCPU)
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Logs: LogsConfig{
			Dir:     "runs",
			Pattern: "*.json",
		},
		Store: StoreConfig{
			Backend: "gob",
		},
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Ignore: []string{
			".git",
			".runlex",
			"node_modules",
			"vendor",
			"__pycache__",
			".venv",
			"venv",
			".idea",
			".vscode",
		},
	}
}

func GetConfigDir(projectRoot string) string {
	return filepath.Join(projectRoot, ConfigDir)
}

func GetConfigPath(projectRoot string) string {
	return filepath.Join(GetConfigDir(projectRoot), ConfigFileName)
}

func GetTallyPath(projectRoot string) string {
	return filepath.Join(GetConfigDir(projectRoot), TallyFileName)
}

func Load(projectRoot string) (*Config, error) {
	configPath := GetConfigPath(projectRoot)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in missing values so older config files keep working.
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Logs.Dir == "" {
		c.Logs.Dir = defaults.Logs.Dir
	}
	if c.Logs.Pattern == "" {
		c.Logs.Pattern = defaults.Logs.Pattern
	}
	if c.Store.Backend == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = defaults.Batch.Workers
	}
	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = defaults.Watch.DebounceMs
	}
}

func (c *Config) Save(projectRoot string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileutil.WriteFileAtomic(GetConfigPath(projectRoot), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func Exists(projectRoot string) bool {
	_, err := os.Stat(GetConfigPath(projectRoot))
	return err == nil
}

// FindProjectRoot walks up from the working directory until it finds a
// .runlex/ config.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Resolve symlinks to handle symlinked directories
	cwd, err = filepath.EvalSymlinks(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	dir := cwd
	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no runlex project found (run 'runlex init' first)")
}
