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

package uidmap_test

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fogfish/it/v2"
	"github.com/fogfish/uidmap"
	"pgregory.net/rapid"
)

func TestNextLayout(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithOrigin(511),
		uidmap.WithProcess(63),
		uidmap.WithDriftProtection(false),
	))

	before := uint64(time.Now().UnixMilli())
	uid, err := gen.Next()
	after := uint64(time.Now().UnixMilli())
	info := uidmap.Parse(uid)

	it.Then(t).Should(
		it.Nil(err),
		it.Equal(info.Origin, 511),
		it.Equal(info.Process, 63),
		it.Equal(info.Sequence, 0),
		it.True(info.Timestamp >= before),
		it.True(info.Timestamp <= after),
	)
}

func TestNextSameMillisecond(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithOrigin(1),
		uidmap.WithProcess(2),
		uidmap.WithClock(readings(t0)),
	))

	a, _ := gen.Next()
	b, _ := gen.Next()
	ia, ib := uidmap.Parse(a), uidmap.Parse(b)

	it.Then(t).Should(
		it.True(a < b),
		it.True(ia.SameMillisecond(ib)),
		it.Equal(ia.Sequence, 0),
		it.Equal(ib.Sequence, 1),
		it.Equal(ia.Time(), time.UnixMilli(int64(t0)).UTC()),
	)
}

func TestNextResetsSequence(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithClock(readings(t0, t0, t0+1)),
	))

	a, _ := gen.Next()
	b, _ := gen.Next()
	c, _ := gen.Next()

	it.Then(t).Should(
		it.Equal(uidmap.Parse(b).Sequence, 1),
		it.Equal(uidmap.Parse(c).Sequence, 0),
		it.Equal(uidmap.Parse(c).Timestamp, t0+1),
		it.True(a < b),
		it.True(b < c),
	)
}

func TestNextSequenceExhausted(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithClock(frozen(t0, 65)),
		uidmap.WithPollInterval(10*time.Microsecond),
	))

	seq, err := gen.Batch(65)

	it.Then(t).Should(it.Nil(err))
	for i := 0; i < 64; i++ {
		info := uidmap.Parse(seq[i])
		it.Then(t).Should(
			it.Equal(info.Timestamp, t0),
			it.Equal(info.Sequence, uint64(i)),
		)
	}

	last := uidmap.Parse(seq[64])
	it.Then(t).Should(
		it.Equal(last.Timestamp, t0+1),
		it.Equal(last.Sequence, 0),
		it.True(seq[63] < seq[64]),
	)
}

func TestNextConcurrentWithinMillisecond(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithOrigin(9),
		uidmap.WithProcess(3),
		uidmap.WithClock(readings(t0)),
	))

	var wg sync.WaitGroup
	ch := make(chan uidmap.UID, 63)
	for i := 0; i < 63; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uid, err := gen.Next()
			if err == nil {
				ch <- uid
			}
		}()
	}
	wg.Wait()
	close(ch)

	seqs := make([]int, 0, 63)
	for uid := range ch {
		info := uidmap.Parse(uid)
		it.Then(t).Should(
			it.Equal(info.Timestamp, t0),
			it.Equal(info.Origin, 9),
			it.Equal(info.Process, 3),
		)
		seqs = append(seqs, int(info.Sequence))
	}
	sort.Ints(seqs)

	it.Then(t).Should(it.Equal(len(seqs), 63))
	for i, s := range seqs {
		it.Then(t).Should(it.Equal(s, i))
	}
}

func TestNextConcurrentUnique(t *testing.T) {
	gen := uidmap.Must(uidmap.New())

	const workers, perWorker = 16, 500
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uidmap.UID]struct{}, workers*perWorker)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]uidmap.UID, 0, perWorker)
			prev := uidmap.UID(0)
			for i := 0; i < perWorker; i++ {
				uid, err := gen.Next()
				if err != nil {
					t.Error(err)
					return
				}
				if uid <= prev {
					t.Errorf("uid %s is not greater than %s", uid.Hex(), prev.Hex())
				}
				prev = uid
				local = append(local, uid)
			}
			mu.Lock()
			for _, uid := range local {
				seen[uid] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	it.Then(t).Should(it.Equal(len(seen), workers*perWorker))
}

func TestNextMonotonic(t *testing.T) {
	gen := uidmap.Must(uidmap.New())

	prev, err := gen.Next()
	it.Then(t).Should(it.Nil(err))

	for i := 0; i < 10000; i++ {
		uid, err := gen.Next()
		if err != nil || uid <= prev {
			t.Fatalf("uid %s does not follow %s: %v", uid.Hex(), prev.Hex(), err)
		}
		prev = uid
	}
}

func TestNextClockDrift(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithDriftProtection(false),
		uidmap.WithClock(readings(t0, t0-5)),
	))

	_, err := gen.Next()
	it.Then(t).Should(it.Nil(err))

	_, err = gen.Next()
	var drift *uidmap.ClockDriftError
	it.Then(t).Should(
		it.True(errors.Is(err, uidmap.ErrClockDrift)),
		it.True(uidmap.IsClockDrift(err)),
		it.True(errors.As(err, &drift)),
	)
	it.Then(t).Should(
		it.Equal(drift.Observed, t0-5),
		it.Equal(drift.Last, t0),
	)
}

func TestNextConcurrentStaleReading(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	// the first reading stalls until another caller emits a later id
	var calls atomic.Int32
	clock := func() (uint64, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return t0, nil
		}
		return t0 + 1, nil
	}

	gen := uidmap.Must(uidmap.New(
		uidmap.WithDriftProtection(false),
		uidmap.WithClock(clock),
	))

	type result struct {
		uid uidmap.UID
		err error
	}
	stalled := make(chan result, 1)
	go func() {
		uid, err := gen.Next()
		stalled <- result{uid, err}
	}()

	<-entered
	b, err := gen.Next()
	close(release)
	a := <-stalled

	it.Then(t).Should(
		it.Nil(err),
		it.Nil(a.err),
		it.True(!uidmap.IsClockDrift(a.err)),
		it.True(b < a.uid),
		it.Equal(uidmap.Parse(a.uid).Timestamp, t0+1),
		it.Equal(uidmap.Parse(a.uid).Sequence, 1),
	)
}

func TestNextAtEpoch(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithClock(readings(uidmap.Epoch)),
	))

	a, err := gen.Next()
	it.Then(t).Should(it.Nil(err))
	b, err := gen.Next()
	it.Then(t).Should(it.Nil(err))

	it.Then(t).Should(
		it.Equal(uidmap.Parse(a).Timestamp, uidmap.Epoch),
		it.Equal(uidmap.Parse(a).Sequence, 0),
		it.Equal(uidmap.Parse(b).Sequence, 1),
		it.True(a < b),
	)
}

func TestNextClockDriftProtection(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithDriftProtection(true),
		uidmap.WithClock(readings(t0, t0-2, t0+1)),
	))

	a, err := gen.Next()
	it.Then(t).Should(it.Nil(err))

	b, err := gen.Next()
	it.Then(t).Should(
		it.Nil(err),
		it.True(a < b),
		it.Equal(uidmap.Parse(b).Timestamp, t0+1),
	)
}

func TestNextClockDriftBeyondMaxWait(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithDriftProtection(true),
		uidmap.WithMaxDriftWait(time.Millisecond),
		uidmap.WithClock(readings(t0, t0-5)),
	))

	_, err := gen.Next()
	it.Then(t).Should(it.Nil(err))

	_, err = gen.Next()
	it.Then(t).Should(it.True(errors.Is(err, uidmap.ErrClockDrift)))
}

func TestBatch(t *testing.T) {
	gen := uidmap.Must(uidmap.New())

	seq, err := gen.Batch(100)
	it.Then(t).Should(
		it.Nil(err),
		it.Equal(len(seq), 100),
	)

	for i := 1; i < len(seq); i++ {
		it.Then(t).Should(it.True(seq[i-1] < seq[i]))
	}

	next, _ := gen.Next()
	it.Then(t).Should(it.True(seq[99] < next))
}

func TestBatchEmpty(t *testing.T) {
	gen := uidmap.Must(uidmap.New())

	seq, err := gen.Batch(0)
	it.Then(t).Should(
		it.Nil(err),
		it.Equal(len(seq), 0),
	)
}

func TestBatchFailure(t *testing.T) {
	gen := uidmap.Must(uidmap.New(
		uidmap.WithDriftProtection(false),
		uidmap.WithClock(readings(t0, t0, t0-1)),
	))

	seq, err := gen.Batch(5)
	it.Then(t).Should(
		it.True(errors.Is(err, uidmap.ErrClockDrift)),
		it.Equal(len(seq), 0),
	)
}

func TestComposeParse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ts := rapid.Uint64Range(uidmap.Epoch, uidmap.Epoch+uidmap.MaxTimestamp).Draw(t, "ts")
		origin := rapid.Uint64Range(0, uidmap.MaxOrigin).Draw(t, "origin")
		process := rapid.Uint64Range(0, uidmap.MaxProcess).Draw(t, "process")
		seq := rapid.Uint64Range(0, uidmap.MaxSequence).Draw(t, "seq")

		info := uidmap.Parse(uidmap.Compose(ts, origin, process, seq))
		if info.Timestamp != ts || info.Origin != origin || info.Process != process || info.Sequence != seq {
			t.Fatalf("round trip (%d, %d, %d, %d) ≠ %+v", ts, origin, process, seq, info)
		}
	})
}

func TestComposeOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ts := rapid.Uint64Range(uidmap.Epoch, uidmap.Epoch+uidmap.MaxTimestamp-1).Draw(t, "ts")
		origin := rapid.Uint64Range(0, uidmap.MaxOrigin).Draw(t, "origin")
		process := rapid.Uint64Range(0, uidmap.MaxProcess).Draw(t, "process")
		seq := rapid.Uint64Range(0, uidmap.MaxSequence).Draw(t, "seq")

		a := uidmap.Compose(ts, origin, process, seq)
		b := uidmap.Compose(ts+1, origin, process, 0)
		if a >= b {
			t.Fatalf("%s ≥ %s", a.Hex(), b.Hex())
		}
	})
}
