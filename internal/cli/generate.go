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
	"io"
	"strconv"

	"github.com/fogfish/uidmap"
	"github.com/spf13/cobra"
)

// NewNextCommand creates command that allocates single identifier
func NewNextCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Allocate new identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := opts.generator()
			if err != nil {
				return err
			}

			uid, err := gen.Next()
			if err != nil {
				return err
			}

			return renderUIDs(opts.output(cmd), []uidmap.UID{uid}, false)
		},
	}
}

// NewBatchCommand creates command that allocates N identifiers
func NewBatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch N",
		Short: "Allocate N identifiers in increasing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid batch size %q: must be non-negative integer", args[0])
			}

			gen, err := opts.generator()
			if err != nil {
				return err
			}

			seq, err := gen.Batch(n)
			if err != nil {
				return err
			}

			opts.Logger.Debug("batch allocated", "size", len(seq),
				"origin", gen.Origin(), "process", gen.Process())

			return renderUIDs(opts.output(cmd), seq, true)
		},
	}
}

// NewParseCommand creates command that decomposes identifiers
func NewParseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse UID...",
		Short: "Decompose identifiers given as sortable string or 0x hex",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]uidView, 0, len(args))
			for _, arg := range args {
				uid, err := uidmap.FromString(arg)
				if err != nil {
					return err
				}
				views = append(views, newUIDView(uid))
			}

			var data any = views
			if len(views) == 1 {
				data = views[0]
			}

			return opts.output(cmd).Render(data, func(w io.Writer) error {
				for i, v := range views {
					if i > 0 {
						fmt.Fprintln(w)
					}
					v.text(w)
				}
				return nil
			})
		},
	}
}

// renderUIDs writes identifiers, single identifier is rendered as object
// unless asList is set
func renderUIDs(out *Output, seq []uidmap.UID, asList bool) error {
	views := make([]uidView, 0, len(seq))
	for _, uid := range seq {
		views = append(views, newUIDView(uid))
	}

	var data any = views
	if !asList && len(views) == 1 {
		data = views[0]
	}

	return out.Render(data, func(w io.Writer) error {
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\n", v.UID, v.Hex)
		}
		return nil
	})
}
