package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/database"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/export"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/storage"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the evaluation configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file template (default wcx.yaml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "wcx.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := writeConfigTemplate(path, forceInit); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config file created at "+path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		data, err := yaml.Marshal(redacted(*cfg))
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// templateConfig is the starting point written by `config init`.
func templateConfig() Config {
	return Config{
		ProjectName: "web-complexity-lab",
		Applications: []ApplicationConfig{
			{
				ID:          "sample_app",
				BaseURL:     "https://example.com",
				UIStructure: collector.Source{Type: collector.SourceSample},
				Tests:       collector.Source{Type: collector.SourceSample, Framework: "playwright"},
				Logs:        collector.Source{Type: collector.SourceSample},
				Agents:      collector.Source{Type: collector.SourceSample},
			},
			{
				ID:          "my_app",
				RootPath:    "./apps/my_app",
				BaseURL:     "http://localhost:3000",
				UIStructure: collector.Source{Type: collector.SourceHTML, Path: "snapshots/*.html"},
				Tests:       collector.Source{Type: collector.SourceJSON, Path: "metrics/tests.json", Framework: "playwright"},
				Logs:        collector.Source{Type: collector.SourceJUnit, Path: "reports/*.xml"},
				Agents:      collector.Source{Type: collector.SourceJSONL, Path: "agents/*.jsonl"},
			},
		},
		Output: OutputConfig{
			Dir:     "./out",
			Formats: export.Formats,
			Storage: storage.Config{Type: storage.TypeLocal},
		},
		Database: DatabaseConfig{
			Driver: database.DriverSQLite,
			Path:   "wcx.db",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

func writeConfigTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	data, err := yaml.Marshal(templateConfig())
	if err != nil {
		return fmt.Errorf("failed to encode config template: %w", err)
	}

	header := "# Web Complexity Lab configuration\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// redacted masks secrets before the config is printed.
func redacted(cfg Config) Config {
	cfg.Database.Password = mask(cfg.Database.Password)
	cfg.Server.APITokenHash = mask(cfg.Server.APITokenHash)
	return cfg
}

func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) > 8:
		return secret[:4] + "..." + secret[len(secret)-4:]
	default:
		return "****"
	}
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
