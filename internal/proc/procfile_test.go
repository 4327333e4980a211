package proc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadStatusExtras(t *testing.T) {
	path := writeFile(t, "status", `Name:	sshd
State:	S (sleeping)
SigQ:	0/62811
SigPnd:	0000000000000000
ShdPnd:	0000000000000100
SigBlk:	0000000000010000
SigCgt:	0000000180014003
SigIgn:	0000000000001000
Speculation_Store_Bypass:	thread vulnerable
`)

	ex, err := readStatusExtras(path)
	require.NoError(t, err)
	require.NotNil(t, ex.signals)
	assert.Equal(t, uint64(0), ex.signals.Pending)
	assert.Equal(t, uint64(0x100), ex.signals.SharedPending)
	assert.Equal(t, uint64(0x10000), ex.signals.Blocked)
	assert.Equal(t, uint64(0x180014003), ex.signals.Caught)
	assert.Equal(t, uint64(0x1000), ex.signals.Ignored)
	assert.Equal(t, "thread vulnerable", ex.ssb)
}

func TestReadStatusExtrasNoSignals(t *testing.T) {
	path := writeFile(t, "status", "Name:\tkthreadd\n")
	ex, err := readStatusExtras(path)
	require.NoError(t, err)
	assert.Nil(t, ex.signals)
	assert.Empty(t, ex.ssb)

	_, err = readStatusExtras(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestParseStatRegisters(t *testing.T) {
	// comm with a space and a parenthesis; kstkesp=140 kstkeip=150.
	stat := "1234 (my (odd) proc) S 1 1234 1234 0 -1 4194560 100 0 0 0 5 3 0 0 20 0 1 0 500 1000 200 " +
		"18446744073709551615 1 1 0 140 150 0 0 0 0 0 0 0 17 2 0 0 0 0 0"

	esp, eip, err := parseStatRegisters(stat)
	require.NoError(t, err)
	assert.Equal(t, uint64(140), esp)
	assert.Equal(t, uint64(150), eip)

	_, _, err = parseStatRegisters("1 (init) S 0")
	assert.Error(t, err)

	_, _, err = parseStatRegisters("garbage")
	assert.Error(t, err)
}

func TestReadLoginUID(t *testing.T) {
	uid, err := readLoginUID(writeFile(t, "loginuid", "1000"))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), uid)

	uid, err = readLoginUID(writeFile(t, "loginuid", "4294967295"))
	require.NoError(t, err)
	assert.Equal(t, UnknownLoginUID, uid)

	_, err = readLoginUID(writeFile(t, "loginuid", "nope"))
	assert.Error(t, err)
}

func TestReadSecurityContext(t *testing.T) {
	assert.Equal(t, "unconfined", readSecurityContext(writeFile(t, "current", "unconfined\n")))
	assert.Equal(t, "system_u:system_r:sshd_t:s0", readSecurityContext(writeFile(t, "current", "system_u:system_r:sshd_t:s0\x00")))
	assert.Empty(t, readSecurityContext(filepath.Join(t.TempDir(), "missing")))
}

func TestTtyName(t *testing.T) {
	tests := []struct {
		nr   int
		want string
	}{
		{0, ""},
		{4<<8 | 1, "tty1"},
		{4<<8 | 64, "ttyS0"},
		{136<<8 | 3, "pts/3"},
		{137<<8 | 2, "pts/258"},
		{5<<8 | 1, "5:1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ttyName(tt.nr))
		})
	}
}

func TestSortPorts(t *testing.T) {
	assert.Nil(t, SortPorts(nil))
	assert.Equal(t, []uint16{22, 80, 443}, SortPorts([]uint16{443, 22, 80, 22, 443}))
}
