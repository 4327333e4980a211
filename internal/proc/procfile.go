package proc

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// The readers below cover /proc fields that procfs does not parse.

type statusExtras struct {
	signals *Signals
	ssb     string
}

// readStatusExtras pulls the signal masks and the speculative store bypass
// state out of /proc/<pid>/status.
func readStatusExtras(path string) (statusExtras, error) {
	var ex statusExtras
	f, err := os.Open(path)
	if err != nil {
		return ex, err
	}
	defer f.Close()

	var sig Signals
	found := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)

		var dst *uint64
		switch key {
		case "SigPnd":
			dst = &sig.Pending
		case "ShdPnd":
			dst = &sig.SharedPending
		case "SigBlk":
			dst = &sig.Blocked
		case "SigCgt":
			dst = &sig.Caught
		case "SigIgn":
			dst = &sig.Ignored
		case "Speculation_Store_Bypass":
			ex.ssb = val
			continue
		default:
			continue
		}
		n, err := strconv.ParseUint(val, 16, 64)
		if err != nil {
			return ex, fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		found++
	}
	if err := sc.Err(); err != nil {
		return ex, err
	}
	if found > 0 {
		ex.signals = &sig
	}
	return ex, nil
}

// readStatRegisters returns kstkesp and kstkeip (fields 29 and 30) from
// /proc/<pid>/stat. The kernel zeroes them unless the caller may ptrace.
func readStatRegisters(path string) (esp, eip uint64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	return parseStatRegisters(string(data))
}

func parseStatRegisters(stat string) (esp, eip uint64, err error) {
	// comm may contain spaces and parentheses; fields resume after the last ')'.
	i := strings.LastIndexByte(stat, ')')
	if i < 0 {
		return 0, 0, fmt.Errorf("malformed stat")
	}
	fields := strings.Fields(stat[i+1:])
	// fields[0] is field 3 (state).
	const espIdx, eipIdx = 29 - 3, 30 - 3
	if len(fields) <= eipIdx {
		return 0, 0, fmt.Errorf("stat has %d fields", len(fields)+2)
	}
	if esp, err = strconv.ParseUint(fields[espIdx], 10, 64); err != nil {
		return 0, 0, err
	}
	if eip, err = strconv.ParseUint(fields[eipIdx], 10, 64); err != nil {
		return 0, 0, err
	}
	return esp, eip, nil
}

// loginUIDUnset is the kernel's value for "no audit login".
const loginUIDUnset = 4294967295

func readLoginUID(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UnknownLoginUID, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return UnknownLoginUID, err
	}
	if n == loginUIDUnset {
		return UnknownLoginUID, nil
	}
	return int64(n), nil
}

// readSecurityContext returns the LSM label (SELinux, AppArmor, Smack) or
// "" when no LSM exposes one.
func readSecurityContext(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\x00\n")
}

// ttyName decodes a tty_nr device number into the name ps prints.
func ttyName(nr int) string {
	if nr == 0 {
		return ""
	}
	major := (nr >> 8) & 0xfff
	minor := (nr & 0xff) | ((nr >> 12) & 0xfff00)
	switch {
	case major == 4 && minor < 64:
		return "tty" + strconv.Itoa(minor)
	case major == 4:
		return "ttyS" + strconv.Itoa(minor-64)
	case major >= 136 && major <= 143:
		return "pts/" + strconv.Itoa(minor+(major-136)*256)
	}
	return fmt.Sprintf("%d:%d", major, minor)
}

// SortPorts sorts ports ascending and drops duplicates, which appear when a
// socket listens on both IPv4 and IPv6.
func SortPorts(ports []uint16) []uint16 {
	if len(ports) == 0 {
		return nil
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	out := ports[:1]
	for _, p := range ports[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
