//go:build linux

package proc

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/logger"
)

// userHZ is the kernel's clock tick rate for /proc/<pid>/stat times.
const userHZ = 100

// tcpListen is the st value of a listening socket in /proc/net/tcp.
const tcpListen = 0x0A

type procfsSampler struct {
	fs   procfs.FS
	root string
	log  logger.Logger
}

func newSampler() sampler {
	return newProcfsSampler(procfs.DefaultMountPoint)
}

func newProcfsSampler(root string) *procfsSampler {
	s := &procfsSampler{root: root, log: logger.Named("proc")}
	fs, err := procfs.NewFS(root)
	if err != nil {
		s.log.Warn("procfs at %s unavailable: %v", root, err)
	}
	s.fs = fs
	return s
}

func (s *procfsSampler) platform() Platform { return Linux }

func (s *procfsSampler) memTotal(ctx context.Context) uint64 {
	mi, err := s.fs.Meminfo()
	if err != nil || mi.MemTotal == nil {
		s.log.Debug("meminfo: %v", err)
		return 0
	}
	return *mi.MemTotal * 1024
}

func (s *procfsSampler) sample(ctx context.Context, threads bool) (map[int32]*Sample, error) {
	procs, err := s.fs.AllProcs()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			"Failed to list processes",
			"Check that /proc is mounted and readable.")
	}

	tcp, udp := s.sockets()
	out := make(map[int32]*Sample, len(procs))

	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(s.root, strconv.Itoa(p.PID))
		smp, err := s.read(p, dir, tcp, udp)
		if err != nil {
			// Exited between the directory scan and the read.
			s.log.Debug("pid %d: %v", p.PID, err)
			continue
		}
		out[smp.Pid] = smp

		if !threads || smp.Threads <= 1 {
			continue
		}
		tasks, err := s.fs.AllThreads(p.PID)
		if err != nil {
			s.log.Debug("pid %d: threads: %v", p.PID, err)
			continue
		}
		for _, t := range tasks {
			if t.PID == p.PID {
				continue
			}
			tdir := filepath.Join(dir, "task", strconv.Itoa(t.PID))
			ts, err := s.read(t, tdir, nil, nil)
			if err != nil {
				s.log.Debug("pid %d: thread %d: %v", p.PID, t.PID, err)
				continue
			}
			ts.Pid = int32(t.PID)
			ts.Ppid = smp.Pid
			ts.Thread = true
			out[ts.Pid] = ts
		}
	}
	return out, nil
}

// read builds a Sample from one /proc/<pid> (or task) directory. Only the
// stat file is mandatory; every other field degrades to its zero value.
func (s *procfsSampler) read(p procfs.Proc, dir string, tcp, udp map[uint64][]uint16) (*Sample, error) {
	stat, err := p.Stat()
	if err != nil {
		return nil, err
	}

	smp := &Sample{
		Pid:         int32(stat.PID),
		Ppid:        int32(stat.PPID),
		Pgid:        int32(stat.PGRP),
		Session:     int32(stat.Session),
		Name:        stat.Comm,
		State:       stat.State,
		Nice:        int64(stat.Nice),
		Priority:    int64(stat.Priority),
		RTPriority:  int64(stat.RTPriority),
		Policy:      int64(stat.Policy),
		Processor:   int64(stat.Processor),
		Threads:     int64(stat.NumThreads),
		MajorFaults: uint64(stat.MajFlt),
		MinorFaults: uint64(stat.MinFlt),
		UserTime:    ticks(uint64(stat.UTime)),
		SystemTime:  ticks(uint64(stat.STime)),
		Tty:         ttyName(stat.TTY),
		LoginUID:    UnknownLoginUID,
	}

	if start, err := stat.StartTime(); err == nil {
		sec := int64(start)
		smp.StartTime = time.Unix(sec, int64((start-float64(sec))*1e9))
	}

	if st, err := p.NewStatus(); err == nil {
		smp.UID = idsFrom(st.UIDs)
		smp.GID = idsFrom(st.GIDs)
		smp.VoluntaryCtxSw = st.VoluntaryCtxtSwitches
		smp.NonVoluntaryCtxSw = st.NonVoluntaryCtxtSwitches
		smp.Memory = &Memory{
			Size:   st.VmSize,
			RSS:    st.VmRSS,
			HWM:    st.VmHWM,
			Peak:   st.VmPeak,
			Data:   st.VmData,
			Text:   st.VmExe,
			Stack:  st.VmStk,
			Locked: st.VmLck,
			Pinned: st.VmPin,
			Swap:   st.VmSwap,
			PTE:    st.VmPTE,
			Lib:    st.VmLib,
		}
	} else {
		s.log.Debug("pid %d: status: %v", stat.PID, err)
	}

	if io, err := p.IO(); err == nil {
		smp.IO = &IO{ReadBytes: io.ReadBytes, WriteBytes: io.WriteBytes}
	}

	smp.Cmdline, _ = p.CmdLine()
	smp.Exe, _ = p.Executable()
	smp.Cwd, _ = p.Cwd()
	smp.Environ, _ = p.Environ()
	if w, err := p.Wchan(); err == nil && w != "0" {
		smp.Wchan = w
	}
	if cgs, err := p.Cgroups(); err == nil {
		smp.Cgroup = pickCgroup(cgs)
	}

	if tcp != nil || udp != nil {
		if targets, err := p.FileDescriptorTargets(); err == nil {
			smp.TCPPorts, smp.UDPPorts = portsOf(targets, tcp, udp)
		}
	}

	if extra, err := readStatusExtras(filepath.Join(dir, "status")); err == nil {
		smp.Signals = extra.signals
		smp.SSB = extra.ssb
	}
	if esp, eip, err := readStatRegisters(filepath.Join(dir, "stat")); err == nil {
		smp.ESP, smp.EIP = esp, eip
	}
	if uid, err := readLoginUID(filepath.Join(dir, "loginuid")); err == nil {
		smp.LoginUID = uid
	}
	smp.SecurityContext = readSecurityContext(filepath.Join(dir, "attr", "current"))

	return smp, nil
}

// sockets maps socket inodes to the local ports bound on them: listening
// TCP sockets and every bound UDP socket, over IPv4 and IPv6.
func (s *procfsSampler) sockets() (tcp, udp map[uint64][]uint16) {
	tcp = make(map[uint64][]uint16)
	udp = make(map[uint64][]uint16)

	for _, fetch := range []func() (procfs.NetTCP, error){s.fs.NetTCP, s.fs.NetTCP6} {
		lines, err := fetch()
		if err != nil {
			s.log.Debug("net tcp: %v", err)
			continue
		}
		for _, l := range lines {
			if l.St == tcpListen {
				tcp[l.Inode] = append(tcp[l.Inode], uint16(l.LocalPort))
			}
		}
	}
	for _, fetch := range []func() (procfs.NetUDP, error){s.fs.NetUDP, s.fs.NetUDP6} {
		lines, err := fetch()
		if err != nil {
			s.log.Debug("net udp: %v", err)
			continue
		}
		for _, l := range lines {
			if l.LocalPort != 0 {
				udp[l.Inode] = append(udp[l.Inode], uint16(l.LocalPort))
			}
		}
	}
	return tcp, udp
}

func ticks(n uint64) time.Duration {
	return time.Duration(n) * time.Second / userHZ
}

func idsFrom(v [4]uint64) *IDs {
	return &IDs{Real: uint32(v[0]), Effective: uint32(v[1]), Saved: uint32(v[2]), FS: uint32(v[3])}
}

// pickCgroup prefers the unified (v2) hierarchy, then the systemd named
// hierarchy, then the first entry.
func pickCgroup(cgs []procfs.Cgroup) string {
	if len(cgs) == 0 {
		return ""
	}
	for _, c := range cgs {
		if c.HierarchyID == 0 {
			return c.Path
		}
	}
	for _, c := range cgs {
		for _, ctl := range c.Controllers {
			if ctl == "name=systemd" {
				return c.Path
			}
		}
	}
	return cgs[0].Path
}

// portsOf resolves "socket:[inode]" fd targets against the socket tables.
func portsOf(targets []string, tcp, udp map[uint64][]uint16) (tcpPorts, udpPorts []uint16) {
	for _, t := range targets {
		if !strings.HasPrefix(t, "socket:[") || !strings.HasSuffix(t, "]") {
			continue
		}
		inode, err := strconv.ParseUint(t[len("socket:["):len(t)-1], 10, 64)
		if err != nil {
			continue
		}
		tcpPorts = append(tcpPorts, tcp[inode]...)
		udpPorts = append(udpPorts, udp[inode]...)
	}
	return SortPorts(tcpPorts), SortPorts(udpPorts)
}
