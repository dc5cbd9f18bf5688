// Package config loads the entrypoint options from the environment and an
// optional YAML options file.
package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"photoframe-entrypoint/internal/paths"
)

// Options is the full configuration surface of the bootstrap. Path fields
// come from the environment; the rest can be set in entrypoint.yml.
type Options struct {
	DataDir   string `yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	UploadDir string `yaml:"upload_path,omitempty" mapstructure:"upload_path"`
	LogDir    string `yaml:"log_path,omitempty" mapstructure:"log_path"`
	ConfigDir string `yaml:"config_path,omitempty" mapstructure:"config_path"`
	DBFile    string `yaml:"db_path,omitempty" mapstructure:"db_path"`

	ServerCommand []string `yaml:"server_command" mapstructure:"server_command"`
	DBToolCommand []string `yaml:"db_tool_command" mapstructure:"db_tool_command"`

	// DirMode is the octal permission mode applied to canonical directories,
	// kept as a string so it survives YAML round trips unambiguously.
	DirMode string `yaml:"dir_mode" mapstructure:"dir_mode"`

	// StrictSymlinks makes a failure to replace a legacy path with a
	// symbolic link fatal instead of logged-and-ignored.
	StrictSymlinks bool `yaml:"strict_symlinks" mapstructure:"strict_symlinks"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// Overrides extracts the raw path overrides for the path resolver.
func (o *Options) Overrides() paths.Overrides {
	return paths.Overrides{
		DataDir:   o.DataDir,
		UploadDir: o.UploadDir,
		LogDir:    o.LogDir,
		ConfigDir: o.ConfigDir,
		DBFile:    o.DBFile,
	}
}

// ParsedDirMode returns DirMode parsed as an octal file mode.
func (o *Options) ParsedDirMode() (uint32, error) {
	mode, err := strconv.ParseUint(o.DirMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid dir_mode %q: %w", o.DirMode, err)
	}
	return uint32(mode), nil
}

// Load reads options from the environment and, if path names an existing
// file, from that YAML options file. A missing file is not an error: the
// bootstrap is expected to run before any configuration exists.
func Load(fs afero.Fs, path string) (*Options, error) {
	v := viper.New()
	v.SetFs(fs)

	defaults := DefaultOptions()
	v.SetDefault("server_command", defaults.ServerCommand)
	v.SetDefault("db_tool_command", defaults.DBToolCommand)
	v.SetDefault("dir_mode", defaults.DirMode)
	v.SetDefault("strict_symlinks", defaults.StrictSymlinks)
	v.SetDefault("log_level", defaults.LogLevel)

	bindings := map[string]string{
		"data_dir":    paths.EnvDataDir,
		"upload_path": paths.EnvUploadPath,
		"log_path":    paths.EnvLogPath,
		"config_path": paths.EnvConfigPath,
		"db_path":     paths.EnvDBPath,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if exists, _ := afero.Exists(fs, path); exists {
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return nil, fmt.Errorf("failed to read options file: %w", err)
				}
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	if _, err := opts.ParsedDirMode(); err != nil {
		return nil, err
	}

	return &opts, nil
}
