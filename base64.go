//
//   Copyright 2012 Dmitry Kolesnikov, All Rights Reserved
//
//   Licensed under the Apache License, Version 2.0 (the "License");
//   you may not use this file except in compliance with the License.
//   You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
//

package uidmap

import "fmt"

// alphabet is ordered by ASCII codes so that encoded strings sort as numbers
var alphabet []rune = []rune{
	'.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E',
	'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U',
	'V', 'W', 'X', 'Y', 'Z', '_', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j',
	'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
}

// 64 bits do not align with 6 bit cells, the value is padded with 2 zero
// bits at the tail and encoded as 66 bits (11 cells).
const (
	encodedBits = 66
	encodedLen  = encodedBits / 6
)

func encode64(uid UID) string {
	b := make([]rune, encodedLen)
	hi, lo := uint64(uid)>>62, uint64(uid)<<2
	for i, x := range split(hi, lo, encodedBits, 6) {
		b[i] = alphabet[x]
	}
	return string(b)
}

func decode64(uid string) (UID, error) {
	if len(uid) != encodedLen {
		return 0, fmt.Errorf("malformed uid %q: expected %d symbols", uid, encodedLen)
	}

	b := make([]byte, encodedLen)
	for i, x := range uid {
		switch {
		case x == '.':
			b[i] = 0
		case x >= '0' && x <= '9':
			b[i] = byte(x-'0') + 1
		case x >= 'A' && x <= 'Z':
			b[i] = byte(x-'A') + 11
		case x == '_':
			b[i] = 37
		case x >= 'a' && x <= 'z':
			b[i] = byte(x-'a') + 38
		default:
			return 0, fmt.Errorf("malformed uid %q: invalid symbol %q", uid, x)
		}
	}

	// last cell carries 2 padding bits
	if b[encodedLen-1]&0x03 != 0 {
		return 0, fmt.Errorf("malformed uid %q: non-zero padding", uid)
	}

	hi, lo := fold(encodedBits, 6, b)
	return UID(hi<<62 | lo>>2), nil
}
