//
//  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//


// Package config loads settings of uidmap tools from defaults, optional YAML
// file and UIDMAP_ prefixed environment variables, in increasing priority.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fogfish/uidmap"
	"github.com/fogfish/uidmap/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix of environment variables, e.g. UIDMAP_GENERATOR_ORIGIN=7
const EnvPrefix = "UIDMAP"

// Origin sources
const (
	OriginHost   = "host"
	OriginEnv    = "env"
	OriginRandom = "random"
)

// Config holds all settings
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeneratorConfig defines identifier generator
type GeneratorConfig struct {
	// Explicit origin id, negative value derives it from OriginSource
	Origin int `mapstructure:"origin"`
	// host, env or random
	OriginSource string `mapstructure:"origin_source"`
	// Explicit process id, negative value derives it from os process id
	Process         int           `mapstructure:"process"`
	DriftProtection bool          `mapstructure:"drift_protection"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	MaxDriftWait    time.Duration `mapstructure:"max_drift_wait"`
}

// RegistryConfig defines symbol registry
type RegistryConfig struct {
	// YAML file with extra symbols registered at bootstrap
	Catalogue string `mapstructure:"catalogue"`
}

// LogConfig defines diagnostic output
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the configuration used when nothing else is given
func Defaults() Config {
	return Config{
		Generator: GeneratorConfig{
			Origin:          -1,
			OriginSource:    OriginHost,
			Process:         -1,
			DriftProtection: true,
			PollInterval:    uidmap.DefaultPollInterval,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: logging.FormatText,
		},
	}
}

// Load reads configuration. The file is optional, empty path skips it.
func Load(path string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("generator.origin", d.Generator.Origin)
	v.SetDefault("generator.origin_source", d.Generator.OriginSource)
	v.SetDefault("generator.process", d.Generator.Process)
	v.SetDefault("generator.drift_protection", d.Generator.DriftProtection)
	v.SetDefault("generator.poll_interval", d.Generator.PollInterval)
	v.SetDefault("generator.max_drift_wait", d.Generator.MaxDriftWait)
	v.SetDefault("registry.catalogue", d.Registry.Catalogue)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	g := c.Generator

	if g.Origin > uidmap.MaxOrigin {
		return fmt.Errorf("invalid generator.origin %d: %w", g.Origin, uidmap.ErrInvalidOrigin)
	}

	if g.Process > uidmap.MaxProcess {
		return fmt.Errorf("invalid generator.process %d: %w", g.Process, uidmap.ErrInvalidProcess)
	}

	switch g.OriginSource {
	case OriginHost, OriginEnv, OriginRandom:
	default:
		return fmt.Errorf("invalid generator.origin_source %q: must be one of %s, %s, %s",
			g.OriginSource, OriginHost, OriginEnv, OriginRandom)
	}

	if g.PollInterval <= 0 {
		return fmt.Errorf("invalid generator.poll_interval %s: must be positive", g.PollInterval)
	}

	if g.MaxDriftWait < 0 {
		return fmt.Errorf("invalid generator.max_drift_wait %s: must not be negative", g.MaxDriftWait)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log.format %q: must be %s or %s",
			c.Log.Format, logging.FormatText, logging.FormatJSON)
	}

	return nil
}

// Options converts settings to generator options
func (g GeneratorConfig) Options(logger *slog.Logger) []uidmap.Config {
	opts := []uidmap.Config{
		uidmap.WithDriftProtection(g.DriftProtection),
		uidmap.WithPollInterval(g.PollInterval),
		uidmap.WithMaxDriftWait(g.MaxDriftWait),
		uidmap.WithLogger(logger),
	}

	switch {
	case g.Origin >= 0:
		opts = append(opts, uidmap.WithOrigin(uint64(g.Origin)))
	case g.OriginSource == OriginEnv:
		opts = append(opts, uidmap.WithOriginFromEnv())
	case g.OriginSource == OriginRandom:
		opts = append(opts, uidmap.WithOriginRandom())
	default:
		opts = append(opts, uidmap.WithOriginFromHost())
	}

	if g.Process >= 0 {
		opts = append(opts, uidmap.WithProcess(uint64(g.Process)))
	}

	return opts
}

// Logger builds diagnostic logger
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level, l.Format)
}
