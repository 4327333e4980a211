//go:build !linux

package proc

import (
	"context"
	"strings"
	"time"

	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/logger"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Socket types as reported in net.ConnectionStat.Type.
const (
	sockStream = 1
	sockDgram  = 2
)

type gopsutilSampler struct {
	log logger.Logger
}

func newSampler() sampler {
	return &gopsutilSampler{log: logger.Named("proc")}
}

func (s *gopsutilSampler) platform() Platform { return CurrentPlatform() }

func (s *gopsutilSampler) memTotal(ctx context.Context) uint64 {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		s.log.Debug("virtual memory: %v", err)
		return 0
	}
	return vm.Total
}

func (s *gopsutilSampler) sample(ctx context.Context, threads bool) (map[int32]*Sample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			"Failed to list processes",
			"Check that pst may query the process table.")
	}

	tcp, udp := s.ports(ctx)
	out := make(map[int32]*Sample, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		smp, err := s.read(ctx, p)
		if err != nil {
			s.log.Debug("pid %d: %v", p.Pid, err)
			continue
		}
		smp.TCPPorts = SortPorts(tcp[p.Pid])
		smp.UDPPorts = SortPorts(udp[p.Pid])
		out[smp.Pid] = smp
	}
	return out, nil
}

// read fills a Sample; only the parent PID is mandatory, the rest degrades
// to zero values when the platform or permissions deny it.
func (s *gopsutilSampler) read(ctx context.Context, p *process.Process) (*Sample, error) {
	ppid, err := p.PpidWithContext(ctx)
	if err != nil {
		return nil, err
	}

	smp := &Sample{
		Pid:      p.Pid,
		Ppid:     ppid,
		LoginUID: UnknownLoginUID,
		Policy:   UnknownPolicy,
		Arch:     archOf(p.Pid),
	}

	smp.Name, _ = p.NameWithContext(ctx)
	smp.Cmdline, _ = p.CmdlineSliceWithContext(ctx)
	smp.Exe, _ = p.ExeWithContext(ctx)
	smp.Cwd, _ = p.CwdWithContext(ctx)
	smp.Environ, _ = p.EnvironWithContext(ctx)
	smp.Tty, _ = p.TerminalWithContext(ctx)

	if uids, err := p.UidsWithContext(ctx); err == nil {
		smp.UID = idsFromSlice(uids)
	}
	if gids, err := p.GidsWithContext(ctx); err == nil {
		smp.GID = idsFromSlice(gids)
	}
	if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
		smp.State = stateLetter(st[0])
	}
	if nice, err := p.NiceWithContext(ctx); err == nil {
		smp.Nice = int64(nice)
	}
	if n, err := p.NumThreadsWithContext(ctx); err == nil {
		smp.Threads = int64(n)
	}
	if cs, err := p.NumCtxSwitchesWithContext(ctx); err == nil {
		smp.VoluntaryCtxSw = uint64(cs.Voluntary)
		smp.NonVoluntaryCtxSw = uint64(cs.Involuntary)
	}
	if mi, err := p.MemoryInfoWithContext(ctx); err == nil {
		smp.Memory = &Memory{
			Size:   mi.VMS,
			RSS:    mi.RSS,
			HWM:    mi.HWM,
			Data:   mi.Data,
			Stack:  mi.Stack,
			Locked: mi.Locked,
			Swap:   mi.Swap,
		}
	}
	if io, err := p.IOCountersWithContext(ctx); err == nil {
		smp.IO = &IO{ReadBytes: io.ReadBytes, WriteBytes: io.WriteBytes}
	}
	if pf, err := p.PageFaultsWithContext(ctx); err == nil {
		smp.MajorFaults = pf.MajorFaults
		smp.MinorFaults = pf.MinorFaults
	}
	if t, err := p.TimesWithContext(ctx); err == nil {
		smp.UserTime = seconds(t.User)
		smp.SystemTime = seconds(t.System)
	}
	if ms, err := p.CreateTimeWithContext(ctx); err == nil {
		smp.StartTime = time.UnixMilli(ms)
	}
	return smp, nil
}

// ports maps PIDs to listening TCP ports and bound UDP ports.
func (s *gopsutilSampler) ports(ctx context.Context) (tcp, udp map[int32][]uint16) {
	tcp = make(map[int32][]uint16)
	udp = make(map[int32][]uint16)

	conns, err := net.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		s.log.Debug("connections: %v", err)
		return tcp, udp
	}
	for _, c := range conns {
		if c.Pid == 0 || c.Laddr.Port == 0 {
			continue
		}
		switch c.Type {
		case sockStream:
			if c.Status == "LISTEN" {
				tcp[c.Pid] = append(tcp[c.Pid], uint16(c.Laddr.Port))
			}
		case sockDgram:
			udp[c.Pid] = append(udp[c.Pid], uint16(c.Laddr.Port))
		}
	}
	return tcp, udp
}

func idsFromSlice(v []int32) *IDs {
	if len(v) == 0 {
		return nil
	}
	get := func(i int) uint32 {
		if i < len(v) {
			return uint32(v[i])
		}
		return uint32(v[0])
	}
	return &IDs{Real: get(0), Effective: get(1), Saved: get(2), FS: get(3)}
}

// stateLetter maps gopsutil's status words onto ps state letters.
func stateLetter(status string) string {
	switch strings.ToLower(status) {
	case process.Running:
		return "R"
	case process.Sleep, process.Idle:
		return "S"
	case process.Stop:
		return "T"
	case process.Zombie:
		return "Z"
	case process.Wait:
		return "W"
	case process.Lock:
		return "D"
	}
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1])
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
