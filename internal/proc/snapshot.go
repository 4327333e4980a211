// Package proc gathers per-process state from the operating system and hands
// it to the column engine as Snapshot values.
//
// Each Snapshot pairs two samples of the same process taken one sampling
// interval apart, so rate attributes (CPU usage, I/O throughput) can be
// derived without the consumer keeping history between ticks.
package proc

import (
	"runtime"
	"time"
)

// Platform identifies which acquisition backend produced a Snapshot.
type Platform int

const (
	Linux Platform = iota
	Darwin
	Windows
	FreeBSD
	Other
)

func (p Platform) String() string {
	switch p {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	case FreeBSD:
		return "freebsd"
	}
	return "other"
}

// CurrentPlatform returns the Platform the binary was built for.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	case "freebsd":
		return FreeBSD
	}
	return Other
}

// IDs holds the four credential sets a process carries.
type IDs struct {
	Real      uint32
	Effective uint32
	Saved     uint32
	FS        uint32
}

// Memory is the per-process memory breakdown, in bytes.
type Memory struct {
	Size   uint64 // virtual size
	RSS    uint64
	HWM    uint64 // peak RSS
	Peak   uint64 // peak virtual size
	Data   uint64
	Text   uint64
	Stack  uint64
	Locked uint64
	Pinned uint64
	Swap   uint64
	PTE    uint64
	Lib    uint64
}

// IO holds cumulative storage counters, in bytes.
type IO struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// Signals holds the 64-bit signal masks.
type Signals struct {
	Pending       uint64
	SharedPending uint64
	Blocked       uint64
	Caught        uint64
	Ignored       uint64
}

// UnknownLoginUID marks a process without an audit login UID.
const UnknownLoginUID int64 = -1

// UnknownPolicy marks a scheduler policy the backend cannot report.
const UnknownPolicy int64 = -1

// Sample is one observation of a process. Pointer fields are nil when the
// backend could not read that group (permission denied, kernel thread, or
// not supported on the platform); string fields are empty in that case.
type Sample struct {
	Pid     int32
	Ppid    int32
	Pgid    int32
	Session int32
	Thread  bool

	LoginUID int64
	UID      *IDs
	GID      *IDs

	Name    string
	Cmdline []string
	Exe     string
	Cwd     string
	Environ []string

	State      string
	Nice       int64
	Priority   int64
	RTPriority int64
	Policy     int64
	Processor  int64
	Threads    int64

	VoluntaryCtxSw    uint64
	NonVoluntaryCtxSw uint64

	Memory  *Memory
	IO      *IO
	Signals *Signals

	MajorFaults uint64
	MinorFaults uint64

	UserTime   time.Duration
	SystemTime time.Duration
	StartTime  time.Time

	Wchan           string
	EIP             uint64
	ESP             uint64
	SSB             string
	Tty             string
	SecurityContext string
	Cgroup          string
	Arch            string

	TCPPorts []uint16
	UDPPorts []uint16
}

// CPUTime is the cumulative user plus system time.
func (s *Sample) CPUTime() time.Duration {
	return s.UserTime + s.SystemTime
}

// Snapshot is the unit consumed by columns: one process seen twice.
type Snapshot struct {
	Platform Platform
	Pid      int32
	Ppid     int32

	// Prev equals Curr when the process was first seen in the second sample;
	// HasPrev tells the two cases apart.
	Prev    *Sample
	Curr    *Sample
	HasPrev bool

	// Interval is the wall-clock time between the two samples.
	Interval time.Duration

	// MemTotal is the host's physical memory, in bytes.
	MemTotal uint64
}

// Thread reports whether the snapshot describes a thread rather than a
// process.
func (s *Snapshot) Thread() bool {
	return s.Curr != nil && s.Curr.Thread
}

// KernelThreadd is the PID of the Linux kernel thread daemon; every kernel
// thread is its child.
const KernelThreadd int32 = 2

// IsKernelThread reports whether the snapshot is a Linux kernel thread.
func IsKernelThread(s *Snapshot) bool {
	if s.Platform != Linux {
		return false
	}
	return s.Pid == KernelThreadd || s.Ppid == KernelThreadd
}
