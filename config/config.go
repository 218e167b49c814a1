package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CIDgravity/snakelet"
	"github.com/joho/godotenv"
)

const (
	SourceKindFixtures = "fixtures"
	SourceKindGithub   = "github"
)

// config structure
type Config struct {
	API      APIConfig      `mapstructure:"API"`
	Tasks    TasksConfig    `mapstructure:"TASKS"`
	Logs     LogsConfig     `mapstructure:"LOGS"`
	Github   GithubConfig   `mapstructure:"GITHUB"`
	Source   SourceConfig   `mapstructure:"SOURCE"`
	Colors   ColorsConfig   `mapstructure:"COLORS"`
	Calendar CalendarConfig `mapstructure:"CALENDAR"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // any logrus level name, case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJSON"`
}

type GithubConfig struct {
	Username string `mapstructure:"Username"`
	Token    string `mapstructure:"Token"` // prefer GITHUB_TOKEN from the environment
}

type SourceConfig struct {
	Kind        string `mapstructure:"Kind"` // fixtures | github
	FixturesDir string `mapstructure:"FixturesDir"`
}

type ColorsConfig struct {
	File     string `mapstructure:"File"`
	Fallback string `mapstructure:"Fallback"`
}

type CalendarConfig struct {
	Timezone string `mapstructure:"Timezone"`
}

// Load
func Load() (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		configFilePath = "config/config.toml"
	}

	// load default and config file content
	cfg := GetDefault()
	_, err = snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	// secrets are read from .env or environment, never required in the toml file
	// a missing .env file is not an error
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
		Source: SourceConfig{
			Kind:        SourceKindFixtures,
			FixturesDir: "fixtures",
		},
		Colors: ColorsConfig{
			File:     "fixtures/colors.json",
			Fallback: "#ededed",
		},
		Calendar: CalendarConfig{
			Timezone: "UTC",
		},
	}
}

func (c *Config) applyEnv() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.Github.Token = token
	}

	if username := os.Getenv("GITHUB_USERNAME"); username != "" {
		c.Github.Username = username
	}
}

// Validate checks the values that would otherwise fail late, at request time
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceKindFixtures:
		if c.Source.FixturesDir == "" {
			return errors.New("SOURCE.FixturesDir is required for the fixtures source")
		}
	case SourceKindGithub:
		if c.Github.Username == "" {
			return errors.New("GITHUB.Username is required for the github source")
		}
	default:
		return fmt.Errorf("unknown SOURCE.Kind %q, expected %q or %q", c.Source.Kind, SourceKindFixtures, SourceKindGithub)
	}

	if c.Tasks.MaxParallelTasksAllowed <= 0 {
		return errors.New("TASKS.MaxParallelTasksAllowed must be a positive integer")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid CALENDAR.Timezone: %w", err)
	}

	return nil
}

// Location returns the timezone used to truncate timestamps to calendar days
func (c Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return time.UTC, nil
	}

	return time.LoadLocation(c.Calendar.Timezone)
}
