// Package config loads journey settings.
//
// Precedence, lowest first: schema defaults, journey.cue, JOURNEY_* environment
// variables, command-line flags (applied by the cli package). The CUE schema
// is checked after every layer so an invalid environment value fails the same
// way an invalid file does.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

//go:embed schema.cue
var schemaCUE string

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "journey.cue"

// EnvPrefix prefixes every environment override, e.g. JOURNEY_RECURRENCE.
const EnvPrefix = "JOURNEY"

// Config holds all settings. JSON tags match the CUE schema field names.
type Config struct {
	Recurrence       string `json:"recurrence"`
	DeploymentSuffix string `json:"deployment_suffix"`
	BuildSuffix      string `json:"build_suffix"`
	Format           string `json:"format"`
	Database         string `json:"database"`
	LogLevel         string `json:"log_level"`
}

// ConfigError reports a config file or environment value that fails the schema.
type ConfigError struct {
	Source  string // file path or "environment"
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Source, e.Message)
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Default returns the schema defaults, ignoring files and environment.
func Default() *Config {
	def, err := schemaDef(cuecontext.New())
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	cfg, err := decode(def, "defaults")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

func schemaDef(ctx *cue.Context) (cue.Value, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile schema: %w", err)
	}
	return schema.LookupPath(cue.ParsePath("#Config")), nil
}

// Load reads path (if non-empty), applies environment overrides, and
// validates the result. With an empty path, DefaultFile is used when it
// exists in the working directory.
func Load(path string) (*Config, error) {
	ctx := cuecontext.New()
	def, err := schemaDef(ctx)
	if err != nil {
		return nil, err
	}

	source := "defaults"
	value := def
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		file := ctx.CompileBytes(data, cue.Filename(filepath.Base(path)))
		if err := file.Err(); err != nil {
			return nil, &ConfigError{Source: path, Message: err.Error()}
		}
		source = path
		value = def.Unify(file)
	}

	cfg, err := decode(value, source)
	if err != nil {
		return nil, err
	}

	if applyEnv(cfg) {
		cfg, err = decode(def.Unify(ctx.Encode(cfg)), "environment")
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func decode(v cue.Value, source string) (*Config, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &ConfigError{Source: source, Message: err.Error()}
	}
	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, &ConfigError{Source: source, Message: err.Error()}
	}
	return &cfg, nil
}

// applyEnv overlays JOURNEY_* variables and reports whether any was set.
func applyEnv(cfg *Config) bool {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	fields := map[string]*string{
		"recurrence":        &cfg.Recurrence,
		"deployment_suffix": &cfg.DeploymentSuffix,
		"build_suffix":      &cfg.BuildSuffix,
		"format":            &cfg.Format,
		"database":          &cfg.Database,
		"log_level":         &cfg.LogLevel,
	}

	changed := false
	for key, dst := range fields {
		_ = v.BindEnv(key)
		if v.IsSet(key) {
			*dst = v.GetString(key)
			changed = true
		}
	}
	return changed
}
