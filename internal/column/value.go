package column

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Type tags the variant held by a Value.
type Type int

const (
	TypeInt Type = iota
	TypeUint
	TypeFloat
	TypeString
	TypeDuration
	TypeTime
	TypePorts
)

// Value is a raw cell: the sort key and the JSON/YAML payload. Every cell of
// one column holds the same Type.
type Value struct {
	typ   Type
	i     int64
	u     uint64
	f     float64
	s     string
	t     time.Time
	ports []uint16
}

func Int(v int64) Value              { return Value{typ: TypeInt, i: v} }
func Uint(v uint64) Value            { return Value{typ: TypeUint, u: v} }
func Float(v float64) Value          { return Value{typ: TypeFloat, f: v} }
func String(v string) Value          { return Value{typ: TypeString, s: v} }
func Duration(v time.Duration) Value { return Value{typ: TypeDuration, i: int64(v)} }
func Time(v time.Time) Value         { return Value{typ: TypeTime, t: v} }
func Ports(v []uint16) Value         { return Value{typ: TypePorts, ports: v} }

// Type returns the variant tag.
func (v Value) Type() Type { return v.typ }

// Compare orders two values of the same Type. Values of different Types
// order by their tag.
func (v Value) Compare(o Value) int {
	if v.typ != o.typ {
		return cmp.Compare(v.typ, o.typ)
	}
	switch v.typ {
	case TypeInt, TypeDuration:
		return cmp.Compare(v.i, o.i)
	case TypeUint:
		return cmp.Compare(v.u, o.u)
	case TypeFloat:
		return cmp.Compare(v.f, o.f)
	case TypeString:
		return strings.Compare(v.s, o.s)
	case TypeTime:
		return v.t.Compare(o.t)
	case TypePorts:
		return slices.Compare(v.ports, o.ports)
	}
	return 0
}

// Interface returns the value as a plain Go value for structured output:
// numbers stay numbers, durations become whole seconds, times become
// RFC 3339 strings (empty when unknown) and port lists become arrays.
func (v Value) Interface() any {
	switch v.typ {
	case TypeInt:
		return v.i
	case TypeUint:
		return v.u
	case TypeFloat:
		return v.f
	case TypeDuration:
		return int64(time.Duration(v.i) / time.Second)
	case TypeTime:
		if v.t.IsZero() {
			return ""
		}
		return v.t.Format(time.RFC3339)
	case TypePorts:
		out := make([]int, len(v.ports))
		for i, p := range v.ports {
			out[i] = int(p)
		}
		return out
	}
	return v.s
}
