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


package cli

import (
	"fmt"
	"os"

	"github.com/fogfish/uidmap"
	"github.com/fogfish/uidmap/catalogue"
	"github.com/spf13/cobra"
)

// NewRegisterCommand creates command that resolves symbols within context
func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	var context string

	cmd := &cobra.Command{
		Use:   "register NAME...",
		Short: "Resolve symbols to identifiers within context",
		Long: `Resolve symbols to identifiers within context. Symbols are case-insensitive,
repeated symbols resolve to the same identifier.

Context is one of global, domain:<name>, custom:<uid> or temporary.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := uidmap.ParseContext(context)
			if err != nil {
				return err
			}

			reg, err := opts.registry()
			if err != nil {
				return err
			}

			seq := make([]uidmap.Mapping, 0, len(args))
			for _, name := range args {
				uid, err := reg.Register(name, ctx)
				if err != nil {
					return err
				}
				seq = append(seq, uidmap.Mapping{Name: name, Context: ctx, UID: uid})
			}

			logStats(opts, reg)
			return renderMappings(opts.output(cmd), seq)
		},
	}

	cmd.Flags().StringVar(&context, "context", "global", "context of symbols")

	return cmd
}

// NewCatalogueCommand creates command that bootstraps well-known symbols
func NewCatalogueCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Register well-known symbols and print the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = opts.Config.Registry.Catalogue
			}

			var extra []catalogue.Entry
			if file != "" {
				seq, err := loadCatalogue(file)
				if err != nil {
					return err
				}
				extra = seq
			}

			reg, err := opts.registry()
			if err != nil {
				return err
			}

			if _, err := catalogue.Bootstrap(reg, extra...); err != nil {
				return err
			}

			logStats(opts, reg)
			return renderMappings(opts.output(cmd), reg.Export())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with extra symbols")

	return cmd
}

func loadCatalogue(path string) ([]catalogue.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()

	return catalogue.Load(f)
}

func logStats(opts *RootOptions, reg *uidmap.Registry) {
	stats := reg.Stats()
	opts.Logger.Info("registry",
		"symbols", stats.TotalSymbols,
		"identifiers", stats.UniqueIdentifiers,
		"lookups", stats.Lookups,
		"hit_rate", stats.HitRate,
	)
}
