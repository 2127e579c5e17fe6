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

// Package catalogue registers well-known symbols so that every process
// resolves them through the same registry calls at startup.
package catalogue

import (
	"errors"
	"fmt"
	"io"

	"github.com/fogfish/uidmap"
	"gopkg.in/yaml.v3"
)

// Relation markers
const (
	RelRole    = "REL_ROLE"
	RelContext = "REL_CONTEXT"
	RelMeaning = "REL_MEANING"
)

// Pattern elements
const (
	PatternWildcard      = "PATTERN_WILDCARD"
	PatternWildcardMulti = "PATTERN_WILDCARD_MULTI"
	PatternSetStart      = "PATTERN_SET_START"
	PatternSetEnd        = "PATTERN_SET_END"
	PatternNot           = "PATTERN_NOT"
	PatternMinMax        = "PATTERN_MIN_MAX"
)

// Error levels
const (
	ErrorStart   = "ERROR_START"
	ErrorFatal   = "ERROR_FATAL"
	ErrorSevere  = "ERROR_SEVERE"
	ErrorWarning = "ERROR_WARNING"
	ErrorInfo    = "ERROR_INFO"
)

// Opcodes
const (
	OpMove    = "OP_MOVE"
	OpInsert  = "OP_INSERT"
	OpDelete  = "OP_DELETE"
	OpCopy    = "OP_COPY"
	OpRelate  = "OP_RELATE"
	OpSearch  = "OP_SEARCH"
	OpExecute = "OP_EXECUTE"
)

// Special markers
const (
	AnchorMarker = "ANCHOR_MARKER"
	StartMarker  = "START_MARKER"
	ExecMarker   = "EXEC_MARKER"
	Success      = "SUCCESS"
	Failure      = "FAILURE"
)

// WellKnown returns names registered in Global context by Bootstrap,
// in registration order.
func WellKnown() []string {
	return []string{
		RelRole, RelContext, RelMeaning,
		PatternWildcard, PatternWildcardMulti, PatternSetStart, PatternSetEnd, PatternNot, PatternMinMax,
		ErrorStart, ErrorFatal, ErrorSevere, ErrorWarning, ErrorInfo,
		OpMove, OpInsert, OpDelete, OpCopy, OpRelate, OpSearch, OpExecute,
		AnchorMarker, StartMarker, ExecMarker, Success, Failure,
	}
}

// Registrar is the subset of registry used by catalogue
type Registrar interface {
	Register(name string, ctx uidmap.Context) (uidmap.UID, error)
	Lookup(name string, ctx uidmap.Context) (uidmap.UID, bool)
}

// Entry is symbol registered on bootstrap
type Entry struct {
	Name    string         `yaml:"name"`
	Context uidmap.Context `yaml:"context"`
}

// Catalogue resolves well-known symbols of Global context
type Catalogue struct {
	reg Registrar
}

// Bootstrap registers well-known symbols in Global context followed by
// extra entries. Bootstrap is idempotent for the same registry.
func Bootstrap(reg Registrar, extra ...Entry) (*Catalogue, error) {
	for _, name := range WellKnown() {
		if _, err := reg.Register(name, uidmap.Global); err != nil {
			return nil, fmt.Errorf("catalogue %s: %w", name, err)
		}
	}

	for _, e := range extra {
		if _, err := reg.Register(e.Name, e.Context); err != nil {
			return nil, fmt.Errorf("catalogue %s in %s: %w", e.Name, e.Context, err)
		}
	}

	return &Catalogue{reg: reg}, nil
}

// UID returns identifier of the symbol in Global context
func (c *Catalogue) UID(name string) (uidmap.UID, bool) {
	return c.reg.Lookup(name, uidmap.Global)
}

// MustUID is like UID but panics if the symbol is unknown
func (c *Catalogue) MustUID(name string) uidmap.UID {
	uid, has := c.UID(name)
	if !has {
		panic(fmt.Errorf("catalogue: %s is not registered", name))
	}
	return uid
}

// Load reads YAML sequence of entries
//
//	- name: pi
//	  context: domain:math
//	- name: apple
func Load(r io.Reader) ([]Entry, error) {
	var seq []Entry
	if err := yaml.NewDecoder(r).Decode(&seq); err != nil {
		if errors.Is(err, io.EOF) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("catalogue: %w", err)
	}

	for i, e := range seq {
		if e.Name == "" {
			return nil, fmt.Errorf("catalogue: entry #%d has no name", i)
		}
	}

	return seq, nil
}
