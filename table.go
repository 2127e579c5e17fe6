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

import "time"

// entry of symbol table
type entry struct {
	spelling    string
	mappings    map[Context]UID
	createdAt   time.Time
	accessedAt  time.Time
	accessCount uint64
}

func (e *entry) touch(now time.Time) {
	e.accessedAt = now
	e.accessCount++
}

// refers checks if any context of entry still maps to uid
func (e *entry) refers(uid UID) bool {
	for _, v := range e.mappings {
		if v == uid {
			return true
		}
	}
	return false
}

// table is a bidirectional map of symbols ⇄ identifiers.
//
// Invariant: uid is a key of reverse iff at least one (symbol, context) pair
// maps to it, and reverse[uid] holds exactly the symbols of those pairs.
// The forward and reverse maps are mutated by link, unlink and drop only.
type table struct {
	symbols map[string]*entry
	reverse map[UID]map[string]struct{}
}

func newTable() table {
	return table{
		symbols: make(map[string]*entry),
		reverse: make(map[UID]map[string]struct{}),
	}
}

func (t *table) get(key string) (*entry, bool) {
	e, has := t.symbols[key]
	return e, has
}

// link (re)points (key, ctx) at uid
func (t *table) link(key, spelling string, ctx Context, uid UID, now time.Time) *entry {
	e, has := t.symbols[key]
	if !has {
		e = &entry{
			spelling:  spelling,
			mappings:  make(map[Context]UID),
			createdAt: now,
		}
		t.symbols[key] = e
	}

	prev, had := e.mappings[ctx]
	e.mappings[ctx] = uid
	if had && prev != uid {
		t.unindex(key, e, prev)
	}

	set, has := t.reverse[uid]
	if !has {
		set = make(map[string]struct{})
		t.reverse[uid] = set
	}
	set[key] = struct{}{}

	e.touch(now)
	return e
}

// unlink removes (key, ctx) pair, the entry is dropped with its last pair
func (t *table) unlink(key string, ctx Context) (UID, bool) {
	e, has := t.symbols[key]
	if !has {
		return 0, false
	}

	uid, has := e.mappings[ctx]
	if !has {
		return 0, false
	}

	delete(e.mappings, ctx)
	t.unindex(key, e, uid)

	if len(e.mappings) == 0 {
		delete(t.symbols, key)
	}

	return uid, true
}

// drop removes the entry with all its pairs
func (t *table) drop(key string) bool {
	e, has := t.symbols[key]
	if !has {
		return false
	}

	delete(t.symbols, key)
	for ctx, uid := range e.mappings {
		delete(e.mappings, ctx)
		t.unindex(key, e, uid)
	}

	return true
}

// unindex removes key from reverse set of uid unless entry still refers to it
func (t *table) unindex(key string, e *entry, uid UID) {
	if e.refers(uid) {
		return
	}

	set, has := t.reverse[uid]
	if !has {
		return
	}

	delete(set, key)
	if len(set) == 0 {
		delete(t.reverse, uid)
	}
}
