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
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is sleep interval used while waiting for the next millisecond
const DefaultPollInterval = 100 * time.Microsecond

// Generator allocates identifiers. It is safe for concurrent use.
//
// The last emitted ⟨𝒕⟩ and ⟨𝒔⟩ are packed into single word
//
//	58 bit              6 bit
//	|-------------------|------|
//	   ⟨𝒕⟩ - epoch + 1       ⟨𝒔⟩
//
// so that both are advanced together by compare-and-swap. The stamp is
// shifted by one, zero word means nothing is emitted yet.
type Generator struct {
	origin          uint64
	process         uint64
	clock           func() (uint64, error)
	driftProtection bool
	pollInterval    time.Duration
	maxDriftWait    time.Duration
	logger          *slog.Logger

	state atomic.Uint64
}

// New creates instance of generator. By default, origin is derived from host
// address, process from os process id and wall clock is time.Now().
func New(opts ...Config) (*Generator, error) {
	gen := &Generator{
		driftProtection: true,
		pollInterval:    DefaultPollInterval,
		logger:          slog.New(slog.DiscardHandler),
	}
	defopt := []Config{WithClockUnix(), WithOriginFromHost(), WithProcessFromPID()}

	for _, opt := range append(defopt, opts...) {
		opt(gen)
	}

	if gen.origin > MaxOrigin {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrigin, gen.origin)
	}

	if gen.process > MaxProcess {
		return nil, fmt.Errorf("%w: %d", ErrInvalidProcess, gen.process)
	}

	return gen, nil
}

// Must is a helper that panics if generator cannot be created
func Must(gen *Generator, err error) *Generator {
	if err != nil {
		panic(err)
	}
	return gen
}

// Origin returns ⟨𝒐⟩ fraction used by generator
func (gen *Generator) Origin() uint64 { return gen.origin }

// Process returns ⟨𝒑⟩ fraction used by generator
func (gen *Generator) Process() uint64 { return gen.process }

// Next allocates new identifier.
//
// The call blocks if clock has moved backwards (drift protection) or if
// all 64 sequence numbers of current millisecond are used.
func (gen *Generator) Next() (UID, error) {
	for {
		// state is loaded before the clock is read, any state stored by
		// concurrent callers afterwards fails the CAS below
		old := gen.state.Load()
		last, seq := old>>SequenceBits, old&MaxSequence

		now, err := gen.now()
		if err != nil {
			return 0, err
		}

		stamp := now + 1
		switch {
		case stamp < last:
			if err := gen.drift(now, last-1); err != nil {
				return 0, err
			}
			continue
		case stamp == last:
			seq = (seq + 1) & MaxSequence
			if seq == 0 {
				if now, err = gen.waitNextMillis(now); err != nil {
					return 0, err
				}
				stamp = now + 1
			}
		default:
			seq = 0
		}

		if gen.state.CompareAndSwap(old, stamp<<SequenceBits|seq) {
			return UID(now<<timestampShift |
				gen.origin<<originShift |
				gen.process<<processShift |
				seq), nil
		}
	}
}

// Batch allocates n identifiers, they are returned in allocation order.
func (gen *Generator) Batch(n int) ([]UID, error) {
	if n <= 0 {
		return []UID{}, nil
	}

	seq := make([]UID, n)
	for i := 0; i < n; i++ {
		uid, err := gen.Next()
		if err != nil {
			return nil, err
		}
		seq[i] = uid
	}

	return seq, nil
}

// now reads wall clock as milliseconds since Epoch
func (gen *Generator) now() (uint64, error) {
	t, err := gen.clock()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrClockUnavailable, err)
	}

	if t < Epoch || t-Epoch > MaxTimestamp {
		return 0, fmt.Errorf("%w: %d ms is out of range", ErrClockUnavailable, t)
	}

	return t - Epoch, nil
}

func (gen *Generator) drift(now, last uint64) error {
	deficit := time.Duration(last-now) * time.Millisecond

	if !gen.driftProtection || (gen.maxDriftWait > 0 && deficit > gen.maxDriftWait) {
		gen.logger.Warn("clock moved backwards",
			"observed", now+Epoch, "last", last+Epoch, "deficit", deficit)
		return &ClockDriftError{Observed: now + Epoch, Last: last + Epoch}
	}

	gen.logger.Debug("clock moved backwards, waiting", "deficit", deficit)
	time.Sleep(deficit)
	return nil
}

func (gen *Generator) waitNextMillis(last uint64) (uint64, error) {
	gen.logger.Debug("sequence exhausted, waiting for next millisecond", "timestamp", last+Epoch)

	for {
		time.Sleep(gen.pollInterval)

		now, err := gen.now()
		if err != nil {
			return 0, err
		}
		if now > last {
			return now, nil
		}
	}
}
