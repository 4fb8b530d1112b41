// Package config loads runtime settings from defaults, a .env file, an
// optional YAML file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the hexharbor binary.
type Config struct {
	Seed         int64  `yaml:"seed"` // 0 picks a random seed
	AIDelayMS    int    `yaml:"ai_delay_ms"`
	Port         int    `yaml:"port"`
	DBPath       string `yaml:"db"`
	AdminKey     string `yaml:"admin_key"`
	Autoplay     bool   `yaml:"autoplay"`
	TargetPoints int    `yaml:"target_points"`
	LogLevel     string `yaml:"log_level"`
	AudioOut     string `yaml:"audio_out"` // raw PCM sink; empty disables audio
	RandomOrgKey string `yaml:"random_org_key"`

	Advisor Advisor `yaml:"advisor"`
}

// Advisor configures the strategy-tip model.
type Advisor struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AIDelayMS:    1500,
		Port:         8080,
		DBPath:       "data/hexharbor.db",
		TargetPoints: 10,
		LogLevel:     "info",
	}
}

// Load reads .env from the working directory and the YAML file at path.
// Either file may be missing; an empty path skips the YAML step.
func Load(path string) (Config, error) {
	return load(".env", path)
}

func load(envPath, yamlPath string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", envPath, err)
	}

	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("no config file", "path", yamlPath)
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", yamlPath, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"HEXHARBOR_AI_DELAY_MS", &c.AIDelayMS},
		{"HEXHARBOR_PORT", &c.Port},
		{"HEXHARBOR_TARGET_POINTS", &c.TargetPoints},
	}
	for _, e := range ints {
		if v, ok := os.LookupEnv(e.key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}

	if v, ok := os.LookupEnv("HEXHARBOR_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HEXHARBOR_SEED: %w", err)
		}
		c.Seed = n
	}
	if v, ok := os.LookupEnv("HEXHARBOR_AUTOPLAY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HEXHARBOR_AUTOPLAY: %w", err)
		}
		c.Autoplay = b
	}

	strs := map[string]*string{
		"HEXHARBOR_DB":             &c.DBPath,
		"HEXHARBOR_ADMIN_KEY":      &c.AdminKey,
		"HEXHARBOR_LOG_LEVEL":      &c.LogLevel,
		"HEXHARBOR_AUDIO_OUT":      &c.AudioOut,
		"HEXHARBOR_RANDOM_ORG_KEY": &c.RandomOrgKey,
		"AI_API_KEY":               &c.Advisor.APIKey,
		"AI_BASE_URL":              &c.Advisor.BaseURL,
		"AI_MODEL":                 &c.Advisor.Model,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	return nil
}

// Validate rejects settings the binary cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.AIDelayMS <= 0 {
		errs = append(errs, fmt.Errorf("ai_delay_ms must be positive, got %d", c.AIDelayMS))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.TargetPoints <= 0 {
		errs = append(errs, fmt.Errorf("target_points must be positive, got %d", c.TargetPoints))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AIDelay returns the pause before each computer move.
func (c Config) AIDelay() time.Duration {
	return time.Duration(c.AIDelayMS) * time.Millisecond
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
