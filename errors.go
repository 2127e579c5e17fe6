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
	"errors"
	"fmt"
)

var (
	// ErrClockUnavailable is returned when wall clock cannot be read or
	// reading falls outside of the range representable by ⟨𝒕⟩.
	ErrClockUnavailable = errors.New("uidmap: clock unavailable")

	// ErrClockDrift is returned when clock moves backwards and generator
	// is not allowed to wait it out.
	ErrClockDrift = errors.New("uidmap: clock drift")

	// ErrSymbolGeneration is returned by registry when identifier
	// allocation fails for a new symbol.
	ErrSymbolGeneration = errors.New("uidmap: symbol generation failed")

	// ErrInvalidOrigin is returned when origin id does not fit 10 bits.
	ErrInvalidOrigin = fmt.Errorf("uidmap: origin id must be between 0 and %d", MaxOrigin)

	// ErrInvalidProcess is returned when process id does not fit 6 bits.
	ErrInvalidProcess = fmt.Errorf("uidmap: process id must be between 0 and %d", MaxProcess)
)

// ClockDriftError reports observed clock regression, both values are unix ms.
type ClockDriftError struct {
	Observed uint64
	Last     uint64
}

func (e *ClockDriftError) Error() string {
	return fmt.Sprintf("uidmap: clock drift: observed %d < last emitted %d", e.Observed, e.Last)
}

func (e *ClockDriftError) Is(target error) bool { return target == ErrClockDrift }

// IsClockDrift checks if error is caused by clock regression.
func IsClockDrift(err error) bool {
	var e *ClockDriftError
	return errors.As(err, &e)
}

// SymbolError wraps generator failure observed while registering symbol.
type SymbolError struct {
	Name    string
	Context Context
	Err     error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("uidmap: symbol generation failed for %q in %s: %v", e.Name, e.Context, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }

func (e *SymbolError) Is(target error) bool { return target == ErrSymbolGeneration }
