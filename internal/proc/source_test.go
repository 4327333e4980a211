package proc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rileyhilliard/pst/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSampler struct {
	samples []map[int32]*Sample
	calls   int
	err     error
}

func (f *fakeSampler) platform() Platform { return Linux }

func (f *fakeSampler) memTotal(ctx context.Context) uint64 { return 8 << 30 }

func (f *fakeSampler) sample(ctx context.Context, threads bool) (map[int32]*Sample, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.samples[f.calls]
	f.calls++
	return s, nil
}

func TestPairedSourceCollect(t *testing.T) {
	start := time.Unix(1000, 0)
	first := map[int32]*Sample{
		1: {Pid: 1, Ppid: 0, StartTime: start, IO: &IO{ReadBytes: 10}},
		2: {Pid: 2, Ppid: 1, StartTime: start},
		3: {Pid: 3, Ppid: 1, StartTime: start},
	}
	second := map[int32]*Sample{
		1: {Pid: 1, Ppid: 0, StartTime: start, IO: &IO{ReadBytes: 30}},
		3: {Pid: 3, Ppid: 1, StartTime: start.Add(time.Second)}, // recycled
		4: {Pid: 4, Ppid: 1, StartTime: start},
	}
	src := &pairedSource{s: &fakeSampler{samples: []map[int32]*Sample{first, second}}, log: logger.Noop()}

	snaps, err := src.Collect(context.Background(), Options{Interval: time.Millisecond})
	require.NoError(t, err)
	require.Len(t, snaps, 3)

	assert.Equal(t, int32(1), snaps[0].Pid)
	assert.True(t, snaps[0].HasPrev)
	assert.Equal(t, uint64(10), snaps[0].Prev.IO.ReadBytes)
	assert.Equal(t, uint64(30), snaps[0].Curr.IO.ReadBytes)
	assert.Equal(t, time.Millisecond, snaps[0].Interval)
	assert.Equal(t, uint64(8<<30), snaps[0].MemTotal)
	assert.Equal(t, Linux, snaps[0].Platform)

	assert.Equal(t, int32(3), snaps[1].Pid)
	assert.False(t, snaps[1].HasPrev, "a recycled pid has no usable previous sample")
	assert.Same(t, snaps[1].Curr, snaps[1].Prev)

	assert.Equal(t, int32(4), snaps[2].Pid)
	assert.False(t, snaps[2].HasPrev)
	assert.Same(t, snaps[2].Curr, snaps[2].Prev)
}

func TestPairedSourceCancel(t *testing.T) {
	src := &pairedSource{
		s:   &fakeSampler{samples: []map[int32]*Sample{{}, {}}},
		log: logger.Noop(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Collect(ctx, Options{Interval: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPairedSourceError(t *testing.T) {
	boom := errors.New("boom")
	src := &pairedSource{s: &fakeSampler{err: boom}, log: logger.Noop()}

	_, err := src.Collect(context.Background(), Options{})
	assert.ErrorIs(t, err, boom)
}

func TestStaticSource(t *testing.T) {
	src := &StaticSource{Snapshots: []Snapshot{{Pid: 1}, {Pid: 2}}}

	snaps, err := src.Collect(context.Background(), Options{})
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	snaps[0].Pid = 99
	assert.Equal(t, int32(1), src.Snapshots[0].Pid, "callers get a copy")
	assert.Equal(t, 1, src.Calls)

	src.Err = errors.New("gone")
	_, err = src.Collect(context.Background(), Options{})
	assert.Error(t, err)
}

func TestIsKernelThread(t *testing.T) {
	assert.True(t, IsKernelThread(&Snapshot{Platform: Linux, Pid: 2, Ppid: 0}))
	assert.True(t, IsKernelThread(&Snapshot{Platform: Linux, Pid: 15, Ppid: 2}))
	assert.False(t, IsKernelThread(&Snapshot{Platform: Linux, Pid: 15, Ppid: 1}))
	assert.False(t, IsKernelThread(&Snapshot{Platform: Darwin, Pid: 15, Ppid: 2}))
}

func TestSnapshotHelpers(t *testing.T) {
	s := &Snapshot{Curr: &Sample{UserTime: time.Second, SystemTime: 2 * time.Second, Thread: true}}
	assert.True(t, s.Thread())
	assert.Equal(t, 3*time.Second, s.Curr.CPUTime())
	assert.False(t, (&Snapshot{}).Thread())
	assert.Equal(t, "linux", Linux.String())
	assert.Equal(t, "darwin", Darwin.String())
}

func TestNameCache(t *testing.T) {
	calls := 0
	c := NewNameCache(func(id uint32) (string, error) {
		calls++
		if id == 0 {
			return "root", nil
		}
		return "", errors.New("unknown")
	})

	assert.Equal(t, "root", c.Name(0))
	assert.Equal(t, "root", c.Name(0))
	assert.Equal(t, "", c.Name(4242))
	assert.Equal(t, "", c.Name(4242))
	assert.Equal(t, 2, calls)
}
