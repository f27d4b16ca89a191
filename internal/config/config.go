package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/gridstat-etl/internal/domain"
)

// Config holds the batch definition and service settings. The batch is read
// from a YAML file; any field can be overridden from the environment.
type Config struct {
	Case         string   `yaml:"case"`
	InRoot       string   `yaml:"in_root"`
	OutRoot      string   `yaml:"out_root"`
	ControlFlows []string `yaml:"control_flows"`
	Grids        []string `yaml:"grids"`
	Prefixes     []string `yaml:"prefixes,omitempty"`

	// Date window in YYYYMMDDHH and the cycle interval in HH. These are
	// validated by each configuration's task, not at load time.
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	CycleInterval string `yaml:"cycle_interval"`

	DateSubdir        string `yaml:"date_subdir,omitempty"`
	Workers           int    `yaml:"workers,omitempty"`
	SkipMissingCycles bool   `yaml:"skip_missing_cycles,omitempty"`

	HTTPAddr        string        `yaml:"http_addr,omitempty"`
	LogLevel        string        `yaml:"log_level,omitempty"`
	LogFormat       string        `yaml:"log_format,omitempty"`
	ShutdownTimeout time.Duration `yaml:"-"`

	// Completion notifications; disabled when KafkaTopic is empty.
	KafkaBrokers []string `yaml:"kafka_brokers,omitempty"`
	KafkaTopic   string   `yaml:"kafka_topic,omitempty"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		CycleInterval: "24",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

func applyEnvOverrides(cfg *Config) error {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return err
	}
	cfg.ShutdownTimeout = shutdownTimeout

	cfg.InRoot = sharedcfg.EnvOrDefault("GRIDSTAT_IN_ROOT", cfg.InRoot)
	cfg.OutRoot = sharedcfg.EnvOrDefault("GRIDSTAT_OUT_ROOT", cfg.OutRoot)
	cfg.Case = sharedcfg.EnvOrDefault("GRIDSTAT_CASE", cfg.Case)
	cfg.Start = sharedcfg.EnvOrDefault("GRIDSTAT_START", cfg.Start)
	cfg.End = sharedcfg.EnvOrDefault("GRIDSTAT_END", cfg.End)
	cfg.CycleInterval = sharedcfg.EnvOrDefault("GRIDSTAT_CYCLE_INTERVAL", cfg.CycleInterval)
	// Set but empty disables a server address from the config file.
	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	cfg.LogLevel = sharedcfg.EnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = sharedcfg.EnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.KafkaTopic = sharedcfg.EnvOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)

	if v := os.Getenv("GRIDSTAT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid GRIDSTAT_WORKERS")
		}
		cfg.Workers = n
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(v)
	}
	return nil
}

// Validate checks the settings that apply to the whole batch.
func (c *Config) Validate() error {
	if len(c.ControlFlows) == 0 {
		return errors.New("control_flows is required")
	}
	if len(c.Grids) == 0 {
		return errors.New("grids is required")
	}
	for _, list := range []struct {
		key    string
		values []string
	}{
		{"control_flows", c.ControlFlows},
		{"grids", c.Grids},
		{"prefixes", c.Prefixes},
	} {
		if v, ok := firstRepeat(list.values); ok {
			return fmt.Errorf("%s lists %q more than once", list.key, v)
		}
	}
	if c.InRoot == "" {
		return errors.New("in_root (GRIDSTAT_IN_ROOT) is required")
	}
	if c.OutRoot == "" {
		return errors.New("out_root (GRIDSTAT_OUT_ROOT) is required")
	}
	if c.Workers < 0 {
		return errors.New("workers (GRIDSTAT_WORKERS) must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.KafkaTopic != "" && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_TOPIC is set but KAFKA_BROKERS is empty")
	}
	return nil
}

// firstRepeat reports the first value that appears twice. Repeats would
// expand to configurations sharing an artifact and log path.
func firstRepeat(values []string) (string, bool) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v, true
		}
		seen[v] = struct{}{}
	}
	return "", false
}

// WorkerCount is the size of the batch worker pool. Zero means one less than
// the number of CPUs, never below one.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return max(runtime.NumCPU()-1, 1)
}

// Configurations expands the control flow, grid and prefix lists into one
// configuration per combination, in that nesting order.
func (c *Config) Configurations() []domain.Configuration {
	prefixes := c.Prefixes
	if len(prefixes) == 0 {
		prefixes = []string{""}
	}

	out := make([]domain.Configuration, 0, len(c.ControlFlows)*len(c.Grids)*len(prefixes))
	for _, flow := range c.ControlFlows {
		for _, grid := range c.Grids {
			for _, prefix := range prefixes {
				out = append(out, domain.Configuration{
					ControlFlow:       flow,
					Prefix:            prefix,
					Grid:              grid,
					Case:              c.Case,
					InputRoot:         filepath.Join(c.InRoot, c.Case, flow),
					DateSubdir:        c.DateSubdir,
					OutputDir:         filepath.Join(c.OutRoot, c.Case, flow),
					Start:             c.Start,
					End:               c.End,
					CycleInterval:     c.CycleInterval,
					SkipMissingCycles: c.SkipMissingCycles,
				})
			}
		}
	}
	return out
}
