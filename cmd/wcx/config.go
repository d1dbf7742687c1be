package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/database"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/export"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/storage"
)

var (
	// ErrNoApplications is returned when the config lists no applications.
	ErrNoApplications = errors.New("at least one application is required")

	// ErrMissingAppID is returned when an application has no id.
	ErrMissingAppID = errors.New("application id is required")

	// ErrDuplicateApp is returned when two applications share an id.
	ErrDuplicateApp = errors.New("duplicate application id")
)

// Config holds all application configuration.
type Config struct {
	ProjectName  string              `mapstructure:"project_name" yaml:"project_name"`
	Applications []ApplicationConfig `mapstructure:"applications" yaml:"applications"`
	Output       OutputConfig        `mapstructure:"output" yaml:"output"`
	Database     DatabaseConfig      `mapstructure:"database" yaml:"database"`
	Server       ServerConfig        `mapstructure:"server" yaml:"server"`
	Log          LogConfig           `mapstructure:"log" yaml:"log"`
}

// ApplicationConfig describes one application and where its records come from.
type ApplicationConfig struct {
	ID          string           `mapstructure:"id" yaml:"id"`
	RootPath    string           `mapstructure:"root_path" yaml:"root_path,omitempty"`
	BaseURL     string           `mapstructure:"base_url" yaml:"base_url,omitempty"`
	UIStructure collector.Source `mapstructure:"ui_structure" yaml:"ui_structure"`
	Tests       collector.Source `mapstructure:"tests" yaml:"tests"`
	Logs        collector.Source `mapstructure:"logs" yaml:"logs"`
	Agents      collector.Source `mapstructure:"agents" yaml:"agents"`
}

// OutputConfig holds export configuration.
type OutputConfig struct {
	Dir     string         `mapstructure:"dir" yaml:"dir"`
	Formats []string       `mapstructure:"formats" yaml:"formats"`
	Storage storage.Config `mapstructure:"storage" yaml:"storage"`
}

// DatabaseConfig holds history database configuration.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" yaml:"driver"`
	Path           string `mapstructure:"path" yaml:"path,omitempty"`
	Host           string `mapstructure:"host" yaml:"host,omitempty"`
	Port           int    `mapstructure:"port" yaml:"port,omitempty"`
	User           string `mapstructure:"user" yaml:"user,omitempty"`
	Password       string `mapstructure:"password" yaml:"password,omitempty"`
	Database       string `mapstructure:"database" yaml:"database,omitempty"`
	MaxOpenConns   int    `mapstructure:"max_open_conns" yaml:"max_open_conns,omitempty"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns,omitempty"`
	MigrationsPath string `mapstructure:"migrations_path" yaml:"migrations_path,omitempty"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host" yaml:"host"`
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	APITokenHash string        `mapstructure:"api_token_hash" yaml:"api_token_hash,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LoadConfig loads configuration from file and WCX_ environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("wcx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("WCX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("project_name", "web-complexity-lab")

	v.SetDefault("output.dir", "./out")
	v.SetDefault("output.formats", export.Formats)
	v.SetDefault("output.storage.type", storage.TypeLocal)
	v.SetDefault("output.storage.s3_bucket", "")
	v.SetDefault("output.storage.s3_region", "us-east-1")
	v.SetDefault("output.storage.s3_presign_expiry", "15m")

	v.SetDefault("database.driver", database.DriverSQLite)
	v.SetDefault("database.path", "wcx.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "wcx")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.migrations_path", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.api_token_hash", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Output.Storage.BaseDir = cfg.Output.Dir

	return &cfg, nil
}

// Validate checks the parts of the config an evaluation depends on.
func (c *Config) Validate() error {
	if len(c.Applications) == 0 {
		return ErrNoApplications
	}

	seen := make(map[string]bool, len(c.Applications))
	for i, app := range c.Applications {
		id := strings.TrimSpace(app.ID)
		if id == "" {
			return fmt.Errorf("%w: applications[%d]", ErrMissingAppID, i)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateApp, id)
		}
		seen[id] = true
	}

	for _, f := range c.Output.Formats {
		if !export.ValidFormat(f) {
			return fmt.Errorf("%w: %q", export.ErrUnknownFormat, f)
		}
	}

	return nil
}

// DatabaseSettings converts the history database section.
func (c *Config) DatabaseSettings() database.Config {
	return database.Config{
		Driver:       c.Database.Driver,
		Path:         c.Database.Path,
		Host:         c.Database.Host,
		Port:         c.Database.Port,
		User:         c.Database.User,
		Password:     c.Database.Password,
		Database:     c.Database.Database,
		MaxOpenConns: c.Database.MaxOpenConns,
		MaxIdleConns: c.Database.MaxIdleConns,
	}
}

// UseSample replaces the configured applications with the built-in sample data set.
func (c *Config) UseSample() {
	sample := collector.Source{Type: collector.SourceSample}
	c.Applications = []ApplicationConfig{{
		ID:          "sample_app",
		BaseURL:     "https://example.com",
		UIStructure: sample,
		Tests:       sample,
		Logs:        sample,
		Agents:      sample,
	}}
}

// BuildApps creates the pipeline applications and their collectors.
func BuildApps(cfg *Config, log logger.Logger) ([]pipeline.App, error) {
	apps := make([]pipeline.App, 0, len(cfg.Applications))
	for _, ac := range cfg.Applications {
		target := collector.Target{ID: ac.ID, RootPath: ac.RootPath, BaseURL: ac.BaseURL}

		app := pipeline.App{ID: ac.ID}
		var err error
		if app.UI, err = collector.NewUIStateCollector(target, ac.UIStructure, log); err != nil {
			return nil, fmt.Errorf("application %s: %w", ac.ID, err)
		}
		if app.Tests, err = collector.NewTestCollector(target, ac.Tests, log); err != nil {
			return nil, fmt.Errorf("application %s: %w", ac.ID, err)
		}
		if app.Logs, err = collector.NewLogCollector(target, ac.Logs, log); err != nil {
			return nil, fmt.Errorf("application %s: %w", ac.ID, err)
		}
		if app.Episodes, err = collector.NewEpisodeCollector(target, ac.Agents, log); err != nil {
			return nil, fmt.Errorf("application %s: %w", ac.ID, err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// newLogger builds the process logger. The --log-level flag wins over the config.
func newLogger(cfg *Config, out io.Writer) logger.Logger {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if out == nil {
		out = os.Stderr
	}
	return logger.NewLogrusLogger(level, cfg.Log.Format, out)
}
