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

// Symbol is snapshot of registry entry
type Symbol struct {
	// Normalized symbol
	Name string
	// Spelling used when the symbol was first seen
	Spelling    string
	Mappings    map[Context]UID
	CreatedAt   time.Time
	AccessedAt  time.Time
	AccessCount uint64
}

// Mapping is (symbol, context, uid) triple
type Mapping struct {
	Name    string  `json:"name" yaml:"name"`
	Context Context `json:"context" yaml:"context"`
	UID     UID     `json:"uid" yaml:"uid"`
}

// Stats of registry, the values are observational only.
// Register and Lookup both count as lookups.
type Stats struct {
	TotalSymbols      int     `json:"total_symbols"`
	UniqueIdentifiers int     `json:"unique_identifiers"`
	Lookups           uint64  `json:"lookups"`
	CacheHits         uint64  `json:"cache_hits"`
	CleanupPasses     uint64  `json:"cleanup_count"`
	Evicted           uint64  `json:"evicted"`
	HitRate           float64 `json:"hit_rate"`
}
