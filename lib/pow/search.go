// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package pow

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"iter"
	"math"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/helix-storage/helix/lib/clock"
	"github.com/helix-storage/helix/lib/fault"
)

// cancelCheckInterval is how many nonces a worker hashes between
// context checks.
const cancelCheckInterval = 4096

var (
	// ErrCancelled is wrapped, together with the context's error, by
	// every search that stops because its context ended.
	ErrCancelled = errors.New("proof-of-work search cancelled")

	// ErrNonceSpaceExhausted is returned if every uint64 nonce was
	// tried without a match. Reaching it takes centuries of hashing;
	// it exists so the search has a defined result on every path.
	ErrNonceSpaceExhausted = errors.New("proof-of-work nonce space exhausted")
)

// Candidates returns the lazy sequence of (nonce, digest) pairs for
// nonce = start, start+stride, start+2*stride, ... A zero stride is
// treated as one. The sequence ends only when the consumer stops
// pulling or the next nonce would overflow uint64. Each call returns
// an independent sequence, so it can be restarted at any nonce.
func Candidates(data []byte, start, stride uint64) iter.Seq2[uint64, Digest] {
	if stride == 0 {
		stride = 1
	}
	return func(yield func(uint64, Digest) bool) {
		buffer := make([]byte, len(data), len(data)+20)
		copy(buffer, data)
		for nonce := start; ; nonce += stride {
			buffer = strconv.AppendUint(buffer[:len(data)], nonce, 10)
			if !yield(nonce, sha256.Sum256(buffer)) {
				return
			}
			if nonce > math.MaxUint64-stride {
				return
			}
		}
	}
}

// Option configures [Search].
type Option func(*searchOptions)

type searchOptions struct {
	workers int
	timed   bool
	clock   clock.Clock
}

// WithWorkers scans the nonce space with n concurrent workers. n <= 0
// uses GOMAXPROCS. The result is identical to a single-worker search.
func WithWorkers(n int) Option {
	return func(options *searchOptions) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		options.workers = n
	}
}

// WithTiming records the search's wall-clock duration in
// [Record.TimeTakenSeconds].
func WithTiming() Option {
	return func(options *searchOptions) {
		options.timed = true
	}
}

// WithClock sets the clock [WithTiming] measures against. The default
// is [clock.Real].
func WithClock(c clock.Clock) Option {
	return func(options *searchOptions) {
		options.clock = c
	}
}

// Search returns the record for the smallest nonce whose digest
// satisfies policy. It blocks until a nonce is found or ctx ends; in
// the latter case it returns an error wrapping both [ErrCancelled] and
// ctx.Err().
func Search(ctx context.Context, data []byte, policy Policy, options ...Option) (*Record, error) {
	if policy == nil {
		return nil, fault.InvalidArgument("difficulty policy is required")
	}

	settings := searchOptions{workers: 1, clock: clock.Real()}
	for _, option := range options {
		option(&settings)
	}

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	started := settings.clock.Now()

	var (
		nonce  uint64
		digest Digest
		err    error
	)
	if settings.workers == 1 {
		nonce, digest, err = scanSequential(ctx, data, policy)
	} else {
		nonce, digest, err = scanParallel(ctx, data, policy, settings.workers)
	}
	if err != nil {
		return nil, err
	}

	record := &Record{
		Nonce:      nonce,
		Hash:       digest.String(),
		Difficulty: policy.Token(),
		Policy:     policy.Kind(),
	}
	if settings.timed {
		elapsed := clock.Since(settings.clock, started).Seconds()
		record.TimeTakenSeconds = &elapsed
	}
	return record, nil
}

func scanSequential(ctx context.Context, data []byte, policy Policy) (uint64, Digest, error) {
	sinceCheck := 0
	for nonce, digest := range Candidates(data, 0, 1) {
		if policy.Qualifies(digest) {
			return nonce, digest, nil
		}
		sinceCheck++
		if sinceCheck == cancelCheckInterval {
			sinceCheck = 0
			if err := ctx.Err(); err != nil {
				return 0, Digest{}, cancelled(err)
			}
		}
	}
	return 0, Digest{}, ErrNonceSpaceExhausted
}

// scanParallel gives worker w the nonces w, w+n, w+2n, ... Each worker
// stops at its first qualifying nonce (lowering the shared bound) or
// once its next nonce exceeds the bound. When every worker has
// stopped, each has cleared all of its nonces below the bound, so the
// bound is the global minimum.
func scanParallel(ctx context.Context, data []byte, policy Policy, workers int) (uint64, Digest, error) {
	var best atomic.Uint64
	best.Store(math.MaxUint64)

	type winner struct {
		nonce  uint64
		digest Digest
		found  bool
	}
	winners := make([]winner, workers)

	group, groupContext := errgroup.WithContext(ctx)
	for worker := range workers {
		group.Go(func() error {
			sinceCheck := 0
			for nonce, digest := range Candidates(data, uint64(worker), uint64(workers)) {
				if nonce > best.Load() {
					return nil
				}
				if policy.Qualifies(digest) {
					lowerBound(&best, nonce)
					winners[worker] = winner{nonce: nonce, digest: digest, found: true}
					return nil
				}
				sinceCheck++
				if sinceCheck == cancelCheckInterval {
					sinceCheck = 0
					if err := groupContext.Err(); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return 0, Digest{}, cancelled(err)
	}

	bound := best.Load()
	for _, candidate := range winners {
		if candidate.found && candidate.nonce == bound {
			return candidate.nonce, candidate.digest, nil
		}
	}
	return 0, Digest{}, ErrNonceSpaceExhausted
}

// lowerBound atomically replaces the bound with nonce if nonce is
// smaller.
func lowerBound(bound *atomic.Uint64, nonce uint64) {
	for {
		current := bound.Load()
		if nonce >= current || bound.CompareAndSwap(current, nonce) {
			return
		}
	}
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
