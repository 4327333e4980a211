package column

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/pst/internal/docker"
	"github.com/rileyhilliard/pst/internal/proc"
)

// Options configures a column at construction.
type Options struct {
	// Header replaces the kind's default header when set.
	Header  string
	Markers Markers
	// Separator is the text of Separator columns.
	Separator string
	// TreeSymbols is [vertical, dash, fork, tee, elbow].
	TreeSymbols [5]string
	Platform    proc.Platform
	// Docker marks the Docker daemon as reachable.
	Docker bool
}

// DefaultTreeSymbols are the box-drawing connectors.
var DefaultTreeSymbols = [5]string{"│", "─", "┬", "├", "└"}

// New builds the column for kind. Placeholder kinds (Slot, TreeSlot) have no
// column and return an error.
func New(kind Kind, opts Options) (Column, error) {
	switch kind {
	case Tree:
		return NewTree(opts), nil
	case Slot, TreeSlot:
		return nil, fmt.Errorf("%s is a placeholder, not a column", kind)
	case Separator:
		sep := opts.Separator
		c := newAttribute(kind, opts, func(*proc.Snapshot, *Tick) (Value, string) {
			return String(sep), sep
		})
		c.header, c.unit = sep, sep
		c.sortable, c.jsonless = false, true
		return c, nil
	case Empty:
		c := newAttribute(kind, opts, func(*proc.Snapshot, *Tick) (Value, string) {
			return String(""), ""
		})
		c.sortable, c.jsonless = false, true
		return c, nil
	}

	ex, ok := extractors[kind]
	if !ok {
		return nil, fmt.Errorf("no extractor for %s", kind)
	}
	c := newAttribute(kind, opts, ex)
	switch kind {
	case TcpPort, UdpPort:
		c.list = true
	case Docker:
		c.available = c.available && opts.Docker
	}
	return c, nil
}

var extractors = map[Kind]extractor{
	Pid:      func(s *proc.Snapshot, _ *Tick) (Value, string) { return intCell(int64(s.Pid)) },
	Ppid:     func(s *proc.Snapshot, _ *Tick) (Value, string) { return intCell(int64(s.Ppid)) },
	Pgid:     sampleInt(func(c *proc.Sample) int64 { return int64(c.Pgid) }),
	Session:  sampleInt(func(c *proc.Sample) int64 { return int64(c.Session) }),
	LoginUid: loginUID,

	Uid:      idCell(uidOf, effective),
	UidReal:  idCell(uidOf, realID),
	UidSaved: idCell(uidOf, saved),
	UidFs:    idCell(uidOf, fsID),
	Gid:      idCell(gidOf, effective),
	GidReal:  idCell(gidOf, realID),
	GidSaved: idCell(gidOf, saved),
	GidFs:    idCell(gidOf, fsID),

	User:       nameCell(uidOf, effective, users),
	UserReal:   nameCell(uidOf, realID, users),
	UserSaved:  nameCell(uidOf, saved, users),
	UserFs:     nameCell(uidOf, fsID, users),
	Group:      nameCell(gidOf, effective, groups),
	GroupReal:  nameCell(gidOf, realID, groups),
	GroupSaved: nameCell(gidOf, saved, groups),
	GroupFs:    nameCell(gidOf, fsID, groups),

	FileName:   sampleString(func(c *proc.Sample) string { return c.Name }),
	Command:    command,
	FilePath:   sampleString(func(c *proc.Sample) string { return c.Exe }),
	Cwd:        sampleString(func(c *proc.Sample) string { return c.Cwd }),
	Env:        sampleString(func(c *proc.Sample) string { return strings.Join(c.Environ, " ") }),
	SecContext: sampleString(func(c *proc.Sample) string { return c.SecurityContext }),
	Cgroup:     sampleString(func(c *proc.Sample) string { return c.Cgroup }),
	Ccgroup:    compressedCgroup,
	Docker:     dockerName,

	Nice:       sampleInt(func(c *proc.Sample) int64 { return c.Nice }),
	Priority:   sampleInt(func(c *proc.Sample) int64 { return c.Priority }),
	RtPriority: sampleInt(func(c *proc.Sample) int64 { return c.RTPriority }),
	Policy:     policy,
	State:      sampleString(func(c *proc.Sample) string { return c.State }),
	Processor:  sampleInt(func(c *proc.Sample) int64 { return c.Processor }),
	Threads:    sampleInt(func(c *proc.Sample) int64 { return c.Threads }),

	ContextSwitch:             sampleUint(func(c *proc.Sample) uint64 { return c.VoluntaryCtxSw + c.NonVoluntaryCtxSw }),
	VoluntaryContextSwitch:    sampleUint(func(c *proc.Sample) uint64 { return c.VoluntaryCtxSw }),
	NonVoluntaryContextSwitch: sampleUint(func(c *proc.Sample) uint64 { return c.NonVoluntaryCtxSw }),

	VmSize:      memory(func(m *proc.Memory) uint64 { return m.Size }),
	VmRss:       memory(func(m *proc.Memory) uint64 { return m.RSS }),
	VmHwm:       memory(func(m *proc.Memory) uint64 { return m.HWM }),
	VmPeak:      memory(func(m *proc.Memory) uint64 { return m.Peak }),
	VmData:      memory(func(m *proc.Memory) uint64 { return m.Data }),
	VmExe:       memory(func(m *proc.Memory) uint64 { return m.Text }),
	VmStack:     memory(func(m *proc.Memory) uint64 { return m.Stack }),
	VmLock:      memory(func(m *proc.Memory) uint64 { return m.Locked }),
	VmPin:       memory(func(m *proc.Memory) uint64 { return m.Pinned }),
	VmSwap:      memory(func(m *proc.Memory) uint64 { return m.Swap }),
	VmPte:       memory(func(m *proc.Memory) uint64 { return m.PTE }),
	VmLib:       memory(func(m *proc.Memory) uint64 { return m.Lib }),
	TotalMemory: memory(func(m *proc.Memory) uint64 { return m.RSS + m.Swap }),
	UsageMem:    usageMem,
	UsageCpu:    usageCPU,

	ReadBytes:  rate(func(io *proc.IO) uint64 { return io.ReadBytes }),
	WriteBytes: rate(func(io *proc.IO) uint64 { return io.WriteBytes }),
	MajFlt:     sampleUint(func(c *proc.Sample) uint64 { return c.MajorFaults }),
	MinFlt:     sampleUint(func(c *proc.Sample) uint64 { return c.MinorFaults }),

	StartTime:   startTime,
	ElapsedTime: elapsedTime,
	CpuTime: func(s *proc.Snapshot, _ *Tick) (Value, string) {
		d := s.Curr.CPUTime()
		return Duration(d), FormatCPUTime(d)
	},

	SigPending: signal(func(sg *proc.Signals) uint64 { return sg.Pending }),
	ShdPending: signal(func(sg *proc.Signals) uint64 { return sg.SharedPending }),
	SigBlocked: signal(func(sg *proc.Signals) uint64 { return sg.Blocked }),
	SigCaught:  signal(func(sg *proc.Signals) uint64 { return sg.Caught }),
	SigIgnored: signal(func(sg *proc.Signals) uint64 { return sg.Ignored }),

	TcpPort: func(s *proc.Snapshot, _ *Tick) (Value, string) {
		return Ports(s.Curr.TCPPorts), FormatPorts(s.Curr.TCPPorts)
	},
	UdpPort: func(s *proc.Snapshot, _ *Tick) (Value, string) {
		return Ports(s.Curr.UDPPorts), FormatPorts(s.Curr.UDPPorts)
	},

	Arch: sampleString(func(c *proc.Sample) string { return c.Arch }),
	Eip: func(s *proc.Snapshot, _ *Tick) (Value, string) {
		return Uint(s.Curr.EIP), FormatHex(s.Curr.EIP)
	},
	Esp: func(s *proc.Snapshot, _ *Tick) (Value, string) {
		return Uint(s.Curr.ESP), FormatHex(s.Curr.ESP)
	},
	Wchan: sampleString(func(c *proc.Sample) string { return c.Wchan }),
	Ssb:   sampleString(func(c *proc.Sample) string { return c.SSB }),
	Tty:   sampleString(func(c *proc.Sample) string { return c.Tty }),
}

func intCell(v int64) (Value, string) {
	return Int(v), strconv.FormatInt(v, 10)
}

func uintCell(v uint64) (Value, string) {
	return Uint(v), strconv.FormatUint(v, 10)
}

func sampleInt(f func(*proc.Sample) int64) extractor {
	return func(s *proc.Snapshot, _ *Tick) (Value, string) { return intCell(f(s.Curr)) }
}

func sampleUint(f func(*proc.Sample) uint64) extractor {
	return func(s *proc.Snapshot, _ *Tick) (Value, string) { return uintCell(f(s.Curr)) }
}

func sampleString(f func(*proc.Sample) string) extractor {
	return func(s *proc.Snapshot, _ *Tick) (Value, string) {
		v := f(s.Curr)
		return String(v), v
	}
}

func loginUID(s *proc.Snapshot, _ *Tick) (Value, string) {
	if s.Curr.LoginUID == proc.UnknownLoginUID {
		return Int(0), ""
	}
	return intCell(s.Curr.LoginUID)
}

func uidOf(c *proc.Sample) *proc.IDs { return c.UID }
func gidOf(c *proc.Sample) *proc.IDs { return c.GID }

func effective(ids *proc.IDs) uint32 { return ids.Effective }
func realID(ids *proc.IDs) uint32    { return ids.Real }
func saved(ids *proc.IDs) uint32     { return ids.Saved }
func fsID(ids *proc.IDs) uint32      { return ids.FS }

func idCell(set func(*proc.Sample) *proc.IDs, pick func(*proc.IDs) uint32) extractor {
	return func(s *proc.Snapshot, _ *Tick) (Value, string) {
		ids := set(s.Curr)
		if ids == nil {
			return Uint(0), ""
		}
		return uintCell(uint64(pick(ids)))
	}
}

func users(t *Tick) *proc.NameCache  { return t.Users }
func groups(t *Tick) *proc.NameCache { return t.Groups }

func nameCell(set func(*proc.Sample) *proc.IDs, pick func(*proc.IDs) uint32, cache func(*Tick) *proc.NameCache) extractor {
	return func(s *proc.Snapshot, t *Tick) (Value, string) {
		ids := set(s.Curr)
		if ids == nil {
			return String(""), ""
		}
		id := pick(ids)
		name := ""
		if nc := cache(t); nc != nil {
			name = nc.Name(id)
		}
		if name == "" {
			name = strconv.FormatUint(uint64(id), 10)
		}
		return String(name), name
	}
}

func command(s *proc.Snapshot, _ *Tick) (Value, string) {
	v := strings.Join(s.Curr.Cmdline, " ")
	if v == "" && s.Curr.Name != "" {
		v = "[" + s.Curr.Name + "]"
	}
	return String(v), v
}

func compressedCgroup(s *proc.Snapshot, t *Tick) (Value, string) {
	v := t.Compress(s.Curr.Cgroup)
	return String(v), v
}

func dockerName(s *proc.Snapshot, t *Tick) (Value, string) {
	id := docker.ContainerID(s.Curr.Cgroup)
	if id == "" || t.Containers == nil {
		return String(""), ""
	}
	v := t.Containers[id]
	return String(v), v
}

var policies = map[int64]string{0: "TS", 1: "FF", 2: "RR", 3: "B", 5: "IDL", 6: "D"}

func policy(s *proc.Snapshot, _ *Tick) (Value, string) {
	v, ok := policies[s.Curr.Policy]
	if !ok && s.Curr.Policy != proc.UnknownPolicy {
		v = "?"
	}
	return String(v), v
}

func memory(f func(*proc.Memory) uint64) extractor {
	return func(s *proc.Snapshot, _ *Tick) (Value, string) {
		if s.Curr.Memory == nil {
			return Uint(0), ""
		}
		v := f(s.Curr.Memory)
		return Uint(v), FormatBytes(v)
	}
}

func usageMem(s *proc.Snapshot, _ *Tick) (Value, string) {
	if s.Curr.Memory == nil || s.MemTotal == 0 {
		return Float(0), ""
	}
	p := float64(s.Curr.Memory.RSS) / float64(s.MemTotal) * 100
	return Float(p), FormatPercent(p)
}

func usageCPU(s *proc.Snapshot, _ *Tick) (Value, string) {
	if s.Interval <= 0 || !s.HasPrev || s.Prev == nil {
		return Float(0), ""
	}
	delta := max(s.Curr.CPUTime()-s.Prev.CPUTime(), 0)
	p := delta.Seconds() / s.Interval.Seconds() * 100
	return Float(p), FormatPercent(p)
}

// rate converts a cumulative counter into bytes per second over the
// sampling interval. Without a previous sample the cell is empty.
func rate(f func(*proc.IO) uint64) extractor {
	return func(s *proc.Snapshot, _ *Tick) (Value, string) {
		ms := uint64(s.Interval / time.Millisecond)
		if !s.HasPrev || s.Prev == nil || s.Prev.IO == nil || s.Curr.IO == nil || ms == 0 {
			return Uint(0), ""
		}
		curr, prev := f(s.Curr.IO), f(s.Prev.IO)
		var v uint64
		if curr > prev {
			v = (curr - prev) * 1000 / ms
		}
		return Uint(v), FormatBytes(v)
	}
}

func startTime(s *proc.Snapshot, t *Tick) (Value, string) {
	st := s.Curr.StartTime
	if st.IsZero() {
		return Time(time.Time{}), ""
	}
	layout := t.StartTimeFormat
	if layout == "" {
		layout = DefaultStartTimeFormat
	}
	return Time(st), st.Local().Format(layout)
}

func elapsedTime(s *proc.Snapshot, t *Tick) (Value, string) {
	st := s.Curr.StartTime
	if st.IsZero() {
		return Duration(0), ""
	}
	d := t.Now.Sub(st)
	if d < 0 {
		d = 0
	}
	return Duration(d), FormatElapsed(d)
}

func signal(f func(*proc.Signals) uint64) extractor {
	return func(s *proc.Snapshot, _ *Tick) (Value, string) {
		if s.Curr.Signals == nil {
			return Uint(0), ""
		}
		v := f(s.Curr.Signals)
		return Uint(v), FormatHex(v)
	}
}
