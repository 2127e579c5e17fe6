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
	"fmt"
	"strings"
)

// ContextKind enumerates kinds of context
type ContextKind uint8

const (
	KindGlobal ContextKind = iota
	KindDomain
	KindCustom
	KindTemporary
)

func (k ContextKind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindDomain:
		return "domain"
	case KindCustom:
		return "custom"
	case KindTemporary:
		return "temporary"
	default:
		return "unknown"
	}
}

// Context is namespace qualifier of symbols. The same symbol resolves to
// different identifiers in different contexts. Context is comparable,
// equality is structural.
type Context struct {
	kind   ContextKind
	domain string
	custom UID
}

// Global is the default context
var Global = Context{kind: KindGlobal}

// Temporary context is never persisted
var Temporary = Context{kind: KindTemporary}

// Domain creates context of named domain
func Domain(name string) Context {
	return Context{kind: KindDomain, domain: name}
}

// Custom creates context qualified by identifier
func Custom(uid UID) Context {
	return Context{kind: KindCustom, custom: uid}
}

// Kind of context
func (ctx Context) Kind() ContextKind { return ctx.kind }

// DomainName returns name of the domain, empty for other kinds
func (ctx Context) DomainName() string { return ctx.domain }

// CustomUID returns qualifying identifier of custom context
func (ctx Context) CustomUID() UID { return ctx.custom }

// Persistent is false for temporary context only
func (ctx Context) Persistent() bool { return ctx.kind != KindTemporary }

// String formats context as text: global, domain:<name>, custom:<uid>, temporary
func (ctx Context) String() string {
	switch ctx.kind {
	case KindDomain:
		return "domain:" + ctx.domain
	case KindCustom:
		return "custom:" + ctx.custom.String()
	default:
		return ctx.kind.String()
	}
}

// ParseContext is inverse to Context.String. Empty string is Global.
func ParseContext(val string) (Context, error) {
	kind, arg, _ := strings.Cut(val, ":")

	switch strings.ToLower(kind) {
	case "", "global":
		return Global, nil
	case "temporary":
		return Temporary, nil
	case "domain":
		if arg == "" {
			return Global, fmt.Errorf("malformed context %q: domain name is missing", val)
		}
		return Domain(arg), nil
	case "custom":
		uid, err := FromString(arg)
		if err != nil {
			return Global, fmt.Errorf("malformed context %q: %w", val, err)
		}
		return Custom(uid), nil
	default:
		return Global, fmt.Errorf("malformed context %q: unknown kind", val)
	}
}

// MarshalText encodes context to text
func (ctx Context) MarshalText() ([]byte, error) {
	return []byte(ctx.String()), nil
}

// UnmarshalText decodes context from text
func (ctx *Context) UnmarshalText(b []byte) (err error) {
	*ctx, err = ParseContext(string(b))
	return
}
