// Package config loads reposync's workspace configuration from flags,
// environment variables, and a TOML config file, in that priority
// order, via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// UploadProfile is a named dest-project/dest-branch preset for
// `reposync upload --profile`. The upload command uses DestProject to
// choose the project when none is named on the command line; DestBranch
// is loaded but not applied to the upload.
type UploadProfile struct {
	DestProject string `yaml:"dest_project"`
	DestBranch  string `yaml:"dest_branch"`
}

// Config is reposync's resolved runtime configuration.
type Config struct {
	Concurrency   int    `mapstructure:"concurrency"`
	VCSBinary     string `mapstructure:"vcs_binary"`
	MinGitVersion string `mapstructure:"min_git_version"`
	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`

	UploadProfiles map[string]UploadProfile
}

const envPrefix = "REPOSYNC"

func defaults() map[string]any {
	return map[string]any{
		"concurrency":     4,
		"vcs_binary":      "git",
		"min_git_version": "v1.7.2",
		"log_level":       "info",
		"log_file":        "",
	}
}

// Load builds a Config from .repo/config.toml (under workspaceRoot),
// REPOSYNC_* environment variables, and any bound flags, with flags
// taking precedence over environment, which takes precedence over the
// file.
func Load(workspaceRoot string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, val := range defaults() {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	configPath := filepath.Join(workspaceRoot, ".repo", "config.toml")
	if data, err := os.ReadFile(configPath); err == nil {
		var fileValues map[string]any
		if _, err := toml.Decode(string(data), &fileValues); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", configPath, err)
		}
		if err := v.MergeConfigMap(fileValues); err != nil {
			return nil, fmt.Errorf("config: merging %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
	}

	cfg := &Config{
		Concurrency:   v.GetInt("concurrency"),
		VCSBinary:     v.GetString("vcs_binary"),
		MinGitVersion: v.GetString("min_git_version"),
		LogLevel:      v.GetString("log_level"),
		LogFile:       v.GetString("log_file"),
	}

	profiles, err := loadUploadProfiles(workspaceRoot)
	if err != nil {
		return nil, err
	}
	cfg.UploadProfiles = profiles

	return cfg, nil
}

func loadUploadProfiles(workspaceRoot string) (map[string]UploadProfile, error) {
	path := filepath.Join(workspaceRoot, ".repo", "review-profiles.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var profiles map[string]UploadProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return profiles, nil
}
