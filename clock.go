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
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"os"
	"time"
)

// EnvOriginID is environment variable used by WithOriginFromEnv
const EnvOriginID = "CONFIG_UIDMAP_ORIGIN_ID"

// Config option of generator.
// Config options allows to define custom strategies to obtain
// ⟨𝒐⟩ origin, ⟨𝒑⟩ process or ⟨𝒕⟩ timestamp.
type Config func(*Generator)

// WithOrigin explicitly configures ⟨𝒐⟩ origin identifier
func WithOrigin(id uint64) Config {
	return func(gen *Generator) {
		gen.origin = id
	}
}

// WithOriginFromEnv configures ⟨𝒐⟩ origin identifier using env variable.
//
// CONFIG_UIDMAP_ORIGIN_ID - defines origin as a string
func WithOriginFromEnv() Config {
	return func(gen *Generator) {
		h := sha256.New()
		h.Write([]byte(os.Getenv(EnvOriginID)))
		hash := h.Sum(nil)
		gen.origin = (uint64(hash[0])<<8 | uint64(hash[1])) & MaxOrigin
	}
}

// WithOriginRandom configures ⟨𝒐⟩ origin identifier using cryptographic random generator
func WithOriginRandom() Config {
	return func(gen *Generator) {
		gen.origin = randomOrigin()
	}
}

func randomOrigin() uint64 {
	bytes := make([]byte, 8)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		panic(err.Error())
	}
	return binary.BigEndian.Uint64(bytes) & MaxOrigin
}

// WithOriginFromHost derives ⟨𝒐⟩ origin identifier from the first
// non-loopback IPv4 address of the host. Random origin is used if host has none.
func WithOriginFromHost() Config {
	return func(gen *Generator) {
		gen.origin = hostOrigin()
	}
}

func hostOrigin() uint64 {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return randomOrigin()
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return uint64(binary.BigEndian.Uint32(ip4)) % (MaxOrigin + 1)
		}
	}

	return randomOrigin()
}

// WithProcess explicitly configures ⟨𝒑⟩ process identifier
func WithProcess(id uint64) Config {
	return func(gen *Generator) {
		gen.process = id
	}
}

// WithProcessFromPID derives ⟨𝒑⟩ process identifier from os process id
func WithProcessFromPID() Config {
	return func(gen *Generator) {
		gen.process = uint64(os.Getpid()) % (MaxProcess + 1)
	}
}

// WithClock configures a custom wall clock, the function returns unix milliseconds
func WithClock(clock func() (uint64, error)) Config {
	return func(gen *Generator) {
		gen.clock = clock
	}
}

// WithClockUnix configures time.Now().UnixMilli() as wall clock
func WithClockUnix() Config {
	return func(gen *Generator) {
		gen.clock = unixtime
	}
}

func unixtime() (uint64, error) {
	t := time.Now().UnixMilli()
	if t < 0 {
		return 0, ErrClockUnavailable
	}
	return uint64(t), nil
}

// WithDriftProtection enables generator to sleep while clock catches up
// after it has moved backwards. Otherwise, ErrClockDrift is returned.
func WithDriftProtection(enabled bool) Config {
	return func(gen *Generator) {
		gen.driftProtection = enabled
	}
}

// WithPollInterval configures sleep interval used while generator waits
// for the next millisecond once sequence is exhausted.
func WithPollInterval(d time.Duration) Config {
	return func(gen *Generator) {
		if d > 0 {
			gen.pollInterval = d
		}
	}
}

// WithMaxDriftWait limits clock regression the generator is allowed to sleep
// through. Larger regressions fail with ErrClockDrift. Zero disables the limit.
func WithMaxDriftWait(d time.Duration) Config {
	return func(gen *Generator) {
		gen.maxDriftWait = d
	}
}

// WithLogger configures structured logger
func WithLogger(logger *slog.Logger) Config {
	return func(gen *Generator) {
		if logger != nil {
			gen.logger = logger
		}
	}
}
