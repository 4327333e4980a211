package column

import (
	"strings"

	"github.com/rileyhilliard/pst/internal/proc"
)

// Kind identifies the attribute a column shows.
type Kind int

const (
	Pid Kind = iota
	Ppid
	Pgid
	Session
	LoginUid
	Uid
	UidReal
	UidSaved
	UidFs
	Gid
	GidReal
	GidSaved
	GidFs
	User
	UserReal
	UserSaved
	UserFs
	Group
	GroupReal
	GroupSaved
	GroupFs
	FileName
	Command
	FilePath
	Cwd
	Env
	SecContext
	Cgroup
	Ccgroup
	Docker

	Nice
	Priority
	RtPriority
	Policy
	State
	Processor
	Threads
	ContextSwitch
	VoluntaryContextSwitch
	NonVoluntaryContextSwitch

	VmSize
	VmRss
	VmHwm
	VmPeak
	VmData
	VmExe
	VmStack
	VmLock
	VmPin
	VmSwap
	VmPte
	VmLib
	TotalMemory
	UsageMem
	UsageCpu

	ReadBytes
	WriteBytes
	MajFlt
	MinFlt

	StartTime
	ElapsedTime
	CpuTime

	SigPending
	ShdPending
	SigBlocked
	SigCaught
	SigIgnored

	TcpPort
	UdpPort

	Arch
	Eip
	Esp
	Wchan
	Ssb
	Tty
	Empty
	Separator
	Slot
	Tree
	TreeSlot

	numKinds
)

type platforms uint8

const (
	onLinux platforms = 1 << iota
	onDarwin
	onWindows
	onFreeBSD

	onUnix = onLinux | onDarwin | onFreeBSD
	onAll  = onUnix | onWindows
)

type kindInfo struct {
	name   string
	header string
	unit   string
	desc   string
	on     platforms
}

const (
	unitBytes   = "[bytes]"
	unitRate    = "[B/s]"
	unitPercent = "[%]"
)

var catalogue = [numKinds]kindInfo{
	Pid:        {"Pid", "PID", "", "Process ID", onAll},
	Ppid:       {"Ppid", "Parent", "", "Parent process ID", onAll},
	Pgid:       {"Pgid", "PGID", "", "Process group ID", onLinux},
	Session:    {"Session", "Session", "", "Session ID", onLinux},
	LoginUid:   {"LoginUid", "Login UID", "", "Audit login user ID", onLinux},
	Uid:        {"Uid", "UID", "", "Effective user ID", onUnix},
	UidReal:    {"UidReal", "Real UID", "", "Real user ID", onUnix},
	UidSaved:   {"UidSaved", "Saved UID", "", "Saved user ID", onUnix},
	UidFs:      {"UidFs", "FS UID", "", "File system user ID", onLinux},
	Gid:        {"Gid", "GID", "", "Effective group ID", onUnix},
	GidReal:    {"GidReal", "Real GID", "", "Real group ID", onUnix},
	GidSaved:   {"GidSaved", "Saved GID", "", "Saved group ID", onUnix},
	GidFs:      {"GidFs", "FS GID", "", "File system group ID", onLinux},
	User:       {"User", "User", "", "Effective user name", onUnix},
	UserReal:   {"UserReal", "Real User", "", "Real user name", onUnix},
	UserSaved:  {"UserSaved", "Saved User", "", "Saved user name", onUnix},
	UserFs:     {"UserFs", "FS User", "", "File system user name", onLinux},
	Group:      {"Group", "Group", "", "Effective group name", onUnix},
	GroupReal:  {"GroupReal", "Real Group", "", "Real group name", onUnix},
	GroupSaved: {"GroupSaved", "Saved Group", "", "Saved group name", onUnix},
	GroupFs:    {"GroupFs", "FS Group", "", "File system group name", onLinux},
	FileName:   {"FileName", "File Name", "", "Executable file name", onAll},
	Command:    {"Command", "Command", "", "Command line with arguments", onAll},
	FilePath:   {"FilePath", "File Path", "", "Executable path", onAll},
	Cwd:        {"Cwd", "CWD", "", "Current working directory", onUnix},
	Env:        {"Env", "Env", "", "Environment variables", onAll},
	SecContext: {"SecContext", "Context", "", "Security context (SELinux, AppArmor)", onLinux},
	Cgroup:     {"Cgroup", "Cgroup", "", "Cgroup path", onLinux},
	Ccgroup:    {"Ccgroup", "Ccgroup", "", "Cgroup path, compressed", onLinux},
	Docker:     {"Docker", "Docker", "", "Docker container name", onLinux},

	Nice:                      {"Nice", "Nice", "", "Nice value", onUnix},
	Priority:                  {"Priority", "Priority", "", "Kernel scheduling priority", onLinux},
	RtPriority:                {"RtPriority", "RT Priority", "", "Real-time priority", onLinux},
	Policy:                    {"Policy", "Policy", "", "Scheduling policy", onLinux},
	State:                     {"State", "State", "", "Process state", onUnix},
	Processor:                 {"Processor", "Processor", "", "Last CPU the process ran on", onLinux},
	Threads:                   {"Threads", "Threads", "", "Number of threads", onAll},
	ContextSwitch:             {"ContextSwitch", "CtxSw", "", "Context switches, total", onLinux},
	VoluntaryContextSwitch:    {"VoluntaryContextSwitch", "VCtxSw", "", "Voluntary context switches", onLinux},
	NonVoluntaryContextSwitch: {"NonVoluntaryContextSwitch", "NVCtxSw", "", "Involuntary context switches", onLinux},

	VmSize:      {"VmSize", "VmSize", unitBytes, "Virtual memory size", onAll},
	VmRss:       {"VmRss", "VmRss", unitBytes, "Resident set size", onAll},
	VmHwm:       {"VmHwm", "VmHwm", unitBytes, "Peak resident set size", onLinux},
	VmPeak:      {"VmPeak", "VmPeak", unitBytes, "Peak virtual memory size", onLinux},
	VmData:      {"VmData", "VmData", unitBytes, "Data segment size", onLinux},
	VmExe:       {"VmExe", "VmExe", unitBytes, "Text segment size", onLinux},
	VmStack:     {"VmStack", "VmStack", unitBytes, "Stack size", onLinux},
	VmLock:      {"VmLock", "VmLock", unitBytes, "Locked memory size", onLinux},
	VmPin:       {"VmPin", "VmPin", unitBytes, "Pinned memory size", onLinux},
	VmSwap:      {"VmSwap", "VmSwap", unitBytes, "Swapped-out memory size", onLinux},
	VmPte:       {"VmPte", "VmPte", unitBytes, "Page table entries size", onLinux},
	VmLib:       {"VmLib", "VmLib", unitBytes, "Shared library code size", onLinux},
	TotalMemory: {"TotalMemory", "TotalMem", unitBytes, "Resident plus swapped memory", onAll},
	UsageMem:    {"UsageMem", "MEM", unitPercent, "Memory usage, percent of physical memory", onAll},
	UsageCpu:    {"UsageCpu", "CPU", unitPercent, "CPU usage over the sampling interval", onAll},

	ReadBytes:  {"ReadBytes", "Read", unitRate, "Storage read throughput", onLinux | onWindows | onFreeBSD},
	WriteBytes: {"WriteBytes", "Write", unitRate, "Storage write throughput", onLinux | onWindows | onFreeBSD},
	MajFlt:     {"MajFlt", "MajFlt", "", "Major page faults", onLinux},
	MinFlt:     {"MinFlt", "MinFlt", "", "Minor page faults", onLinux},

	StartTime:   {"StartTime", "Start", "", "Start time", onAll},
	ElapsedTime: {"ElapsedTime", "Elapsed", "", "Time since start", onAll},
	CpuTime:     {"CpuTime", "CPU Time", "", "Cumulative CPU time", onAll},

	SigPending: {"SigPending", "SigPending", "", "Pending signals (thread)", onLinux},
	ShdPending: {"ShdPending", "ShdPending", "", "Pending signals (process)", onLinux},
	SigBlocked: {"SigBlocked", "SigBlocked", "", "Blocked signals", onLinux},
	SigCaught:  {"SigCaught", "SigCaught", "", "Caught signals", onLinux},
	SigIgnored: {"SigIgnored", "SigIgnored", "", "Ignored signals", onLinux},

	TcpPort: {"TcpPort", "TCP", "", "Listening TCP ports", onAll},
	UdpPort: {"UdpPort", "UDP", "", "Bound UDP ports", onAll},

	Arch:      {"Arch", "Arch", "", "Instruction set (x86_64 under Rosetta)", onDarwin},
	Eip:       {"Eip", "EIP", "", "Instruction pointer", onLinux},
	Esp:       {"Esp", "ESP", "", "Stack pointer", onLinux},
	Wchan:     {"Wchan", "Wchan", "", "Kernel function the process sleeps in", onLinux},
	Ssb:       {"Ssb", "SSB", "", "Speculative store bypass mitigation", onLinux},
	Tty:       {"Tty", "TTY", "", "Controlling terminal", onUnix},
	Empty:     {"Empty", "", "", "Blank column", onAll},
	Separator: {"Separator", "", "", "Column separator", onAll},
	Slot:      {"Slot", "", "", "Placeholder filled by --insert", onAll},
	Tree:      {"Tree", "", "", "Process tree", onAll},
	TreeSlot:  {"TreeSlot", "", "", "Placeholder for the tree column in --tree", onAll},
}

// String returns the kind's config name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "Unknown"
	}
	return catalogue[k].name
}

// Header is the default header text.
func (k Kind) Header() string { return catalogue[k].header }

// Unit is the text shown in the unit row.
func (k Kind) Unit() string { return catalogue[k].unit }

// Description is the one-line summary printed by --list.
func (k Kind) Description() string { return catalogue[k].desc }

// SupportedOn reports whether the kind can be collected on p.
func (k Kind) SupportedOn(p proc.Platform) bool {
	var bit platforms
	switch p {
	case proc.Linux:
		bit = onLinux
	case proc.Darwin:
		bit = onDarwin
	case proc.Windows:
		bit = onWindows
	case proc.FreeBSD:
		bit = onFreeBSD
	default:
		return false
	}
	return catalogue[k].on&bit != 0
}

// Placeholder reports kinds that mark positions in the config rather than
// produce columns.
func (k Kind) Placeholder() bool {
	return k == Slot || k == TreeSlot
}

// ParseKind looks a kind up by config name, ignoring case.
func ParseKind(name string) (Kind, bool) {
	for k := Kind(0); k < numKinds; k++ {
		if strings.EqualFold(catalogue[k].name, name) {
			return k, true
		}
	}
	return 0, false
}

// Match reports whether the kind's name contains sub, ignoring case.
// --only, --sorta and --sortd select columns this way.
func (k Kind) Match(sub string) bool {
	return strings.Contains(strings.ToLower(k.String()), strings.ToLower(sub))
}

// Kinds returns every kind in catalogue order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}
