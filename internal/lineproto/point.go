// Package lineproto renders records in the InfluxDB line protocol.
//
// Keys, tag values and string field values are written verbatim. Callers
// must not pass commas, spaces, equals signs or double quotes in them.
package lineproto

import (
	"strconv"
	"time"
)

type kind uint8

const (
	kindFloat kind = iota
	kindInt
	kindUint
	kindString
	kindBool
)

// Value is a typed field value.
type Value struct {
	kind kind
	f    float64
	i    int64
	u    uint64
	s    string
	b    bool
}

func Float(v float64) Value { return Value{kind: kindFloat, f: v} }
func Int(v int64) Value     { return Value{kind: kindInt, i: v} }
func Uint(v uint64) Value   { return Value{kind: kindUint, u: v} }
func Str(v string) Value    { return Value{kind: kindString, s: v} }
func Bool(v bool) Value     { return Value{kind: kindBool, b: v} }

// AppendTo appends the wire form of v to dst.
func (v Value) AppendTo(dst []byte) []byte {
	switch v.kind {
	case kindInt:
		return append(strconv.AppendInt(dst, v.i, 10), 'i')
	case kindUint:
		return append(strconv.AppendUint(dst, v.u, 10), 'u')
	case kindString:
		dst = append(dst, '"')
		dst = append(dst, v.s...)
		return append(dst, '"')
	case kindBool:
		return strconv.AppendBool(dst, v.b)
	default:
		return strconv.AppendFloat(dst, v.f, 'f', -1, 64)
	}
}

func (v Value) String() string {
	return string(v.AppendTo(nil))
}

type tag struct {
	key   string
	value string
}

type field struct {
	key   string
	value Value
}

// Point is one line-protocol record. Tags and fields keep insertion order
// and duplicates are written as given.
type Point struct {
	measurement string
	tags        []tag
	fields      []field
	ts          time.Time
}

// New returns a point for measurement without tags, fields or timestamp.
func New(measurement string) *Point {
	return &Point{measurement: measurement}
}

// AddTag appends a tag.
func (p *Point) AddTag(key, value string) *Point {
	p.tags = append(p.tags, tag{key: key, value: value})
	return p
}

// AddField appends a field.
func (p *Point) AddField(key string, value Value) *Point {
	p.fields = append(p.fields, field{key: key, value: value})
	return p
}

// SetTime sets the timestamp. The zero time removes it.
func (p *Point) SetTime(t time.Time) *Point {
	p.ts = t
	return p
}

// Time returns the timestamp and whether one is set.
func (p *Point) Time() (time.Time, bool) {
	return p.ts, !p.ts.IsZero()
}

// Measurement returns the measurement name.
func (p *Point) Measurement() string { return p.measurement }

// AppendTo appends the rendered line, without a trailing newline, to dst.
func (p *Point) AppendTo(dst []byte) []byte {
	dst = append(dst, p.measurement...)
	for _, t := range p.tags {
		dst = append(dst, ',')
		dst = append(dst, t.key...)
		dst = append(dst, '=')
		dst = append(dst, t.value...)
	}
	dst = append(dst, ' ')
	for i, f := range p.fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, f.key...)
		dst = append(dst, '=')
		dst = f.value.AppendTo(dst)
	}
	if !p.ts.IsZero() {
		dst = append(dst, ' ')
		dst = strconv.AppendInt(dst, p.ts.UnixNano(), 10)
	}
	return dst
}

func (p *Point) String() string {
	return string(p.AppendTo(make([]byte, 0, 128)))
}
