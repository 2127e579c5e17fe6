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


// Package cli implements uidmap command line interface.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/fogfish/uidmap"
	"github.com/fogfish/uidmap/internal/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags and state shared by commands
type RootOptions struct {
	Verbose    bool
	Format     string
	ConfigFile string

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// NewRootCommand creates the root command of uidmap
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "uidmap",
		Short:         "uidmap - 64-bit identifiers and symbol registry",
		Long:          "Generates time-ordered 64-bit identifiers and resolves symbols to them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file")

	cmd.AddCommand(NewNextCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewCatalogueCommand(opts))

	return cmd
}

func (opts *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}

	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts.Config = cfg
	opts.Logger = logger
	return nil
}

func (opts *RootOptions) generator() (*uidmap.Generator, error) {
	return uidmap.New(opts.Config.Generator.Options(opts.Logger)...)
}

func (opts *RootOptions) registry() (*uidmap.Registry, error) {
	gen, err := opts.generator()
	if err != nil {
		return nil, err
	}

	return uidmap.NewRegistry(gen, uidmap.WithRegistryLogger(opts.Logger)), nil
}

func (opts *RootOptions) output(cmd *cobra.Command) *Output {
	return &Output{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
