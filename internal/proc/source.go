package proc

import (
	"context"
	"sort"
	"time"

	"github.com/rileyhilliard/pst/internal/logger"
)

// Options controls a single collection.
type Options struct {
	// Interval is the delay between the two samples.
	Interval time.Duration
	// Threads lists each non-main thread as its own snapshot, parented to
	// its process.
	Threads bool
}

// Source produces one Snapshot per live process.
type Source interface {
	Collect(ctx context.Context, opts Options) ([]Snapshot, error)
}

// sampler takes a single observation of every process. Implementations live
// in the per-platform files.
type sampler interface {
	platform() Platform
	sample(ctx context.Context, threads bool) (map[int32]*Sample, error)
	memTotal(ctx context.Context) uint64
}

// pairedSource turns a sampler into a Source by sampling twice.
type pairedSource struct {
	s   sampler
	log logger.Logger
}

// NewSource returns the Source for the running platform.
func NewSource() Source {
	return &pairedSource{s: newSampler(), log: logger.Named("proc")}
}

// Collect takes two samples Interval apart and pairs them by PID. Processes
// that exited in between are dropped; processes that appeared in between
// get Prev == Curr.
func (p *pairedSource) Collect(ctx context.Context, opts Options) ([]Snapshot, error) {
	prev, err := p.s.sample(ctx, opts.Threads)
	if err != nil {
		return nil, err
	}

	if opts.Interval > 0 {
		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	curr, err := p.s.sample(ctx, opts.Threads)
	if err != nil {
		return nil, err
	}

	snaps := pair(p.s.platform(), prev, curr, opts.Interval, p.s.memTotal(ctx))
	p.log.Debug("collected %d snapshots (%d in first sample)", len(snaps), len(prev))
	return snaps, nil
}

// pair joins two samples into snapshots ordered by PID.
func pair(pl Platform, prev, curr map[int32]*Sample, interval time.Duration, memTotal uint64) []Snapshot {
	pids := make([]int32, 0, len(curr))
	for pid := range curr {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })

	snaps := make([]Snapshot, 0, len(pids))
	for _, pid := range pids {
		c := curr[pid]
		pr, ok := prev[pid]
		// A recycled PID is a different process.
		if ok && !pr.StartTime.Equal(c.StartTime) {
			ok = false
		}
		if !ok {
			pr = c
		}
		snaps = append(snaps, Snapshot{
			Platform: pl,
			Pid:      c.Pid,
			Ppid:     c.Ppid,
			Prev:     pr,
			Curr:     c,
			HasPrev:  ok,
			Interval: interval,
			MemTotal: memTotal,
		})
	}
	return snaps
}

// StaticSource serves a fixed set of snapshots. It is used by tests and by
// callers that already hold snapshots.
type StaticSource struct {
	Snapshots []Snapshot
	Err       error

	// Calls counts Collect invocations.
	Calls int
}

// Collect returns a copy of the configured snapshots.
func (s *StaticSource) Collect(ctx context.Context, opts Options) ([]Snapshot, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]Snapshot, len(s.Snapshots))
	copy(out, s.Snapshots)
	return out, nil
}
