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

package uidmap

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Source of identifiers used by registry
type Source interface {
	Next() (UID, error)
}

// Option of registry
type Option func(*Registry)

// WithNow configures wall clock used for access bookkeeping
func WithNow(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithRegistryLogger configures structured logger
func WithRegistryLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry resolves symbols to identifiers within contexts and maintains
// reverse index identifier → symbols.
//
// Symbols are normalized (NFC, case folding) before lookup and storage.
// A single lock guards the whole table, including read-only calls that
// update access bookkeeping.
type Registry struct {
	mu     sync.Mutex
	source Source
	table  table
	caser  cases.Caser
	now    func() time.Time
	logger *slog.Logger

	lookups   uint64
	hits      uint64
	passes    uint64
	evictions uint64
}

// NewRegistry creates empty registry, new identifiers are allocated from source
func NewRegistry(source Source, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		table:  newTable(),
		caser:  cases.Fold(),
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// normalize must be called with lock held, caser is stateful
func (r *Registry) normalize(name string) string {
	return r.caser.String(norm.NFC.String(name))
}

// Register returns identifier of the symbol in the context,
// allocating new one if the pair is not known yet.
func (r *Registry) Register(name string, ctx Context) (UID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.normalize(name)
	now := r.now()

	r.lookups++
	if e, has := r.table.get(key); has {
		if uid, has := e.mappings[ctx]; has {
			r.hits++
			e.touch(now)
			return uid, nil
		}
	}

	uid, err := r.source.Next()
	if err != nil {
		return 0, &SymbolError{Name: name, Context: ctx, Err: err}
	}

	r.table.link(key, name, ctx, uid, now)
	r.logger.Debug("symbol registered", "symbol", key, "context", ctx.String(), "uid", uid.Hex())

	return uid, nil
}

// Lookup returns identifier of the symbol in the context
func (r *Registry) Lookup(name string, ctx Context) (UID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookups++
	e, has := r.table.get(r.normalize(name))
	if !has {
		return 0, false
	}

	uid, has := e.mappings[ctx]
	if !has {
		return 0, false
	}

	r.hits++
	e.touch(r.now())
	return uid, true
}

// SetMapping unconditionally points the symbol in the context at uid.
// Distinct symbols mapped to the same uid become aliases.
func (r *Registry) SetMapping(name string, ctx Context, uid UID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.table.link(r.normalize(name), name, ctx, uid, r.now())
}

// RemoveMapping removes the symbol from the context. The symbol is forgotten
// together with its last context.
func (r *Registry) RemoveMapping(name string, ctx Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, removed := r.table.unlink(r.normalize(name), ctx)
	return removed
}

// SymbolsFor returns sorted normalized symbols aliased to uid
func (r *Registry) SymbolsFor(uid UID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sortedKeys(r.table.reverse[uid])
}

// BaseSymbol returns the symbol whose global mapping is uid. Otherwise,
// any symbol aliased to uid.
func (r *Registry) BaseSymbol(uid UID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	aliases := sortedKeys(r.table.reverse[uid])
	if len(aliases) == 0 {
		return "", false
	}

	for _, key := range aliases {
		e, _ := r.table.get(key)
		if g, has := e.mappings[Global]; has && g == uid {
			return key, true
		}
	}

	return aliases[0], true
}

// Cleanup removes symbols idle for longer than maxAge, the removal cascades
// through reverse index. minAccessCount is reserved for access frequency
// policy and is not evaluated.
func (r *Registry) Cleanup(maxAge time.Duration, minAccessCount uint64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stale := make([]string, 0)
	for key, e := range r.table.symbols {
		if now.Sub(e.accessedAt) > maxAge {
			stale = append(stale, key)
		}
	}

	for _, key := range stale {
		r.table.drop(key)
	}

	r.passes++
	r.evictions += uint64(len(stale))
	r.logger.Debug("registry cleanup",
		"removed", len(stale), "remaining", len(r.table.symbols), "max_age", maxAge)

	return len(stale)
}

// Stats returns snapshot of registry counters
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		TotalSymbols:      len(r.table.symbols),
		UniqueIdentifiers: len(r.table.reverse),
		Lookups:           r.lookups,
		CacheHits:         r.hits,
		CleanupPasses:     r.passes,
		Evicted:           r.evictions,
	}
	if r.lookups > 0 {
		stats.HitRate = float64(r.hits) / float64(r.lookups)
	}

	return stats
}

// Symbols returns all normalized symbols, sorted
func (r *Registry) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sortedKeys(r.table.symbols)
}

// Describe returns snapshot of the symbol
func (r *Registry) Describe(name string) (Symbol, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.normalize(name)
	e, has := r.table.get(key)
	if !has {
		return Symbol{}, false
	}

	mappings := make(map[Context]UID, len(e.mappings))
	for ctx, uid := range e.mappings {
		mappings[ctx] = uid
	}

	return Symbol{
		Name:        key,
		Spelling:    e.spelling,
		Mappings:    mappings,
		CreatedAt:   e.createdAt,
		AccessedAt:  e.accessedAt,
		AccessCount: e.accessCount,
	}, true
}

// Export returns all (symbol, context, uid) triples except temporary contexts,
// sorted by symbol and context.
func (r *Registry) Export() []Mapping {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := make([]Mapping, 0, len(r.table.symbols))
	for key, e := range r.table.symbols {
		for ctx, uid := range e.mappings {
			if ctx.Persistent() {
				seq = append(seq, Mapping{Name: key, Context: ctx, UID: uid})
			}
		}
	}

	sort.Slice(seq, func(i, j int) bool {
		if seq[i].Name == seq[j].Name {
			return seq[i].Context.String() < seq[j].Context.String()
		}
		return seq[i].Name < seq[j].Name
	})

	return seq
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
