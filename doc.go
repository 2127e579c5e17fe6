/*

  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved

  Licensed under the Apache License, Version 2.0 (the "License");
  you may not use this file except in compliance with the License.
  You may obtain a copy of the License at

      http://www.apache.org/licenses/LICENSE-2.0

  Unless required by applicable law or agreed to in writing, software
  distributed under the License is distributed on an "AS IS" BASIS,
  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
  See the License for the specific language governing permissions and
  limitations under the License.

*/

/*
Package uidmap implements generator of unique 64-bit identifiers and a symbol
registry that resolves human-readable names to those identifiers. Neither
requires a coordinating server.

# Identity Schema

A fixed size of 64-bit is used

	42 bit          10 bit   6 bit   6 bit
	|----------------|--------|------|------|
	   ⟨𝒕⟩ - epoch       ⟨𝒐⟩      ⟨𝒑⟩     ⟨𝒔⟩

↣ ⟨𝒕⟩ is UTC timestamp with millisecond precision counted from the custom
epoch 2024-01-01. 42 bits covers about 139 years.

↣ ⟨𝒐⟩ is 10-bit origin (node) identifier. It is configured explicitly, derived
from host address, from environment or allocated randomly.

↣ ⟨𝒑⟩ is 6-bit process identifier, by default derived from os process id.

↣ ⟨𝒔⟩ is 6-bit sequence that disambiguates identifiers allocated within same
millisecond. The 65th allocation within a millisecond waits for the next one.

Identifiers of a generator are strictly increasing while the wall clock does
not go backwards. The generator either sleeps through clock regression (drift
protection) or reports ErrClockDrift.

	gen, err := uidmap.New(uidmap.WithOrigin(7))
	uid, err := gen.Next()
	info := uidmap.Parse(uid)

# Symbols

Registry maps (symbol, context) pairs to identifiers. The same symbol resolves
to different identifiers in different contexts; distinct symbols might be
aliased to same identifier. Symbols are case-insensitive.

	reg := uidmap.NewRegistry(gen)
	pi, err := reg.Register("pi", uidmap.Domain("math"))
	reg.SetMapping("π", uidmap.Domain("math"), pi)
	reg.SymbolsFor(pi) // [pi π]

The registry is not persistent. Temporary context marks mappings that must
never leave the process.
*/
package uidmap
