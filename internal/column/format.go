package column

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

// FormatBytes renders a byte count with an SI suffix using integer
// division: 4096 → "4K", 2000000 → "2M".
func FormatBytes(n uint64) string {
	const units = "KMGTP"
	if n < 1000 {
		return strconv.FormatUint(n, 10)
	}
	i := -1
	for n >= 1000 && i < len(units)-1 {
		n /= 1000
		i++
	}
	return strconv.FormatUint(n, 10) + string(units[i])
}

// FormatElapsed humanises a running time. The largest unit whose value is
// above one wins: 30s → "30.0seconds", 2 days → "2.0days".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	units := []struct {
		name string
		size time.Duration
	}{
		{"years", year},
		{"weeks", week},
		{"days", day},
		{"hours", time.Hour},
		{"minutes", time.Minute},
	}
	for _, u := range units {
		if v := float64(d) / float64(u.size); v > 1 {
			return fmt.Sprintf("%.1f%s", v, u.name)
		}
	}
	return fmt.Sprintf("%.1fseconds", d.Seconds())
}

// FormatCPUTime renders cumulative CPU time as HH:MM:SS below a day, then
// fractional days, then fractional years.
func FormatCPUTime(d time.Duration) string {
	switch {
	case d < day:
		s := int64(d / time.Second)
		return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
	case d < year:
		return fmt.Sprintf("%.1fd", float64(d)/float64(day))
	}
	return fmt.Sprintf("%.1fy", float64(d)/float64(year))
}

// FormatPercent renders a percentage with one decimal and no sign.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// FormatPorts renders a port list as "[22, 80]", or "" when empty.
func FormatPorts(ports []uint16) string {
	if len(ports) == 0 {
		return ""
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.FormatUint(uint64(p), 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatHex renders a 64-bit mask or address as 16 hex digits.
func FormatHex(n uint64) string {
	return fmt.Sprintf("%016x", n)
}

// listElements splits a rendered list back into its elements.
func listElements(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
