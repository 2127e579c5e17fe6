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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UID is 64-bit identifier
//
//	42 bit          10 bit   6 bit   6 bit
//	|----------------|--------|------|------|
//	   ⟨𝒕⟩ - epoch       ⟨𝒐⟩      ⟨𝒑⟩     ⟨𝒔⟩
type UID uint64

// Info is decomposed identifier
type Info struct {
	UID       UID    `json:"uid"`
	Timestamp uint64 `json:"timestamp_ms"`
	Origin    uint64 `json:"origin_id"`
	Process   uint64 `json:"process_id"`
	Sequence  uint64 `json:"sequence"`
}

// Time returns ⟨𝒕⟩ as wall-clock time
func (info Info) Time() time.Time {
	return time.UnixMilli(int64(info.Timestamp)).UTC()
}

// SameMillisecond checks if both identifiers are allocated by same generator
// within same millisecond
func (info Info) SameMillisecond(other Info) bool {
	return info.Timestamp == other.Timestamp &&
		info.Origin == other.Origin &&
		info.Process == other.Process
}

// Hex formats identifier as 0x prefixed 16 digits hex number
func (uid UID) Hex() string {
	return fmt.Sprintf("0x%016x", uint64(uid))
}

// String encodes identifier to lexicographically sortable string
func (uid UID) String() string {
	return encode64(uid)
}

// Bytes encodes identifier to big-endian byte slice
func (uid UID) Bytes() []byte {
	return split(0, uint64(uid), 64, 8)
}

// FromBytes decodes identifier from big-endian bytes
func FromBytes(val []byte) (UID, error) {
	if len(val) != 8 {
		return 0, fmt.Errorf("malformed uid: %v", val)
	}

	_, lo := fold(64, 8, val)
	return UID(lo), nil
}

// FromString decodes identifier either from lexicographically sortable
// string or from 0x prefixed hex number.
func FromString(val string) (UID, error) {
	if strings.HasPrefix(val, "0x") || strings.HasPrefix(val, "0X") {
		v, err := strconv.ParseUint(val[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed uid %q: %w", val, err)
		}
		return UID(v), nil
	}

	return decode64(val)
}

// MarshalText encodes identifier to lexicographically sortable string
func (uid UID) MarshalText() ([]byte, error) {
	return []byte(encode64(uid)), nil
}

// UnmarshalText decodes identifier from text
func (uid *UID) UnmarshalText(b []byte) (err error) {
	*uid, err = FromString(string(b))
	return
}

// MarshalJSON encodes identifier to lexicographically sortable JSON string
func (uid UID) MarshalJSON() ([]byte, error) {
	return json.Marshal(encode64(uid))
}

// UnmarshalJSON decodes identifier from JSON string
func (uid *UID) UnmarshalJSON(b []byte) (err error) {
	var val string
	if err = json.Unmarshal(b, &val); err != nil {
		return
	}
	*uid, err = FromString(val)
	return
}
