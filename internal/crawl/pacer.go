// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"
)

// Pacer blocks between consecutive page fetches.
type Pacer interface {
	Wait(ctx context.Context) error
}

// PacerFunc adapts a function to the Pacer interface.
type PacerFunc func(ctx context.Context) error

// Wait calls f(ctx).
func (f PacerFunc) Wait(ctx context.Context) error { return f(ctx) }

// JitterPacer waits a duration drawn uniformly from [Min, Max] and reports
// each wait to its writer.
type JitterPacer struct {
	Min, Max time.Duration

	out   io.Writer
	rnd   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

// NewJitterPacer returns a JitterPacer that prints its waits to w.
func NewJitterPacer(lo, hi time.Duration, w io.Writer) *JitterPacer {
	if w == nil {
		w = io.Discard
	}
	return &JitterPacer{
		Min:   lo,
		Max:   hi,
		out:   w,
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sleep: sleepContext,
	}
}

// Next draws the next wait duration.
func (p *JitterPacer) Next() time.Duration {
	span := p.Max - p.Min
	if span <= 0 {
		return p.Min
	}
	return p.Min + time.Duration(p.rnd.Int64N(int64(span)+1))
}

// Wait sleeps for Next() or until ctx is done.
func (p *JitterPacer) Wait(ctx context.Context) error {
	d := p.Next()
	fmt.Fprintf(p.out, "Waiting for %.2f seconds before the next request...\n", d.Seconds())
	return p.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
