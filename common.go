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

// Epoch is the custom epoch 2024-01-01 00:00:00 UTC in unix milliseconds.
// Every generator that must interoperate shares it.
const Epoch uint64 = 1704067200000

// bit allocation of ⟨𝒕⟩, ⟨𝒐⟩, ⟨𝒑⟩ and ⟨𝒔⟩ fractions
const (
	TimestampBits = 42
	OriginBits    = 10
	ProcessBits   = 6
	SequenceBits  = 6
)

const (
	timestampShift = OriginBits + ProcessBits + SequenceBits
	originShift    = ProcessBits + SequenceBits
	processShift   = SequenceBits
)

const (
	MaxTimestamp = (1 << TimestampBits) - 1
	MaxOrigin    = (1 << OriginBits) - 1
	MaxProcess   = (1 << ProcessBits) - 1
	MaxSequence  = (1 << SequenceBits) - 1
)

// Compose packs fractions into identifier
//
//	42 bit          10 bit   6 bit   6 bit
//	|----------------|--------|------|------|
//	   ⟨𝒕⟩ - epoch       ⟨𝒐⟩      ⟨𝒑⟩     ⟨𝒔⟩
//
// The timestamp is unix milliseconds, it must not precede Epoch.
// Fractions wider than their field are truncated.
func Compose(t, origin, process, seq uint64) UID {
	return UID(((t-Epoch)&MaxTimestamp)<<timestampShift |
		(origin&MaxOrigin)<<originShift |
		(process&MaxProcess)<<processShift |
		seq&MaxSequence)
}

// Parse decomposes identifier into fractions. It is inverse to Compose.
func Parse(uid UID) Info {
	v := uint64(uid)
	return Info{
		UID:       uid,
		Timestamp: (v >> timestampShift) + Epoch,
		Origin:    (v >> originShift) & MaxOrigin,
		Process:   (v >> processShift) & MaxProcess,
		Sequence:  v & MaxSequence,
	}
}

// split decomposes (hi, lo) pair of size bits into cells of n bits.
func split(hi, lo, size, n uint64) (bytes []byte) {
	hilo := uint64(64) // hi | lo division at
	bytes = make([]byte, size/n)

	mask := uint64(1<<n) - 1
	i := 0

	for a := size; a >= n; a -= n {
		b := a - n
		switch {
		case a >= hilo && b >= hilo:
			bytes[i] = byte(hi >> (b - hilo) & mask)
		case a <= hilo && b <= hilo:
			bytes[i] = byte(lo >> b & mask)
		case a > hilo && b < hilo:
			suffix := uint64(1<<(a-hilo)) - 1
			h := byte(hi & suffix)
			l := byte(lo >> b)
			bytes[i] = h<<(hilo-b) | l
		}
		i++
	}

	return
}

// fold composes (hi, lo) pair from cells of n bits. It is inverse to split.
func fold(size, n uint64, bytes []byte) (hi, lo uint64) {
	hilo := uint64(64)

	mask := uint64(1<<n) - 1
	i := 0

	for a := size; a >= n && i < len(bytes); a -= n {
		b := a - n
		switch {
		case a >= hilo && b >= hilo:
			hi |= (uint64(bytes[i]) & mask) << (b - hilo)
		case a <= hilo && b <= hilo:
			lo |= (uint64(bytes[i]) & mask) << b
		case a > hilo && b < hilo:
			hi |= (uint64(bytes[i]) & mask) >> (hilo - b)
			lo |= (uint64(bytes[i]) & mask) << b
		}
		i++
	}
	return
}
