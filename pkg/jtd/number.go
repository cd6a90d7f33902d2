package jtd

import (
	"fmt"
	"math"
)

// NumType is a JTD numeric type. The non-zero values form a total order from
// narrowest to widest; NumUnset means no default was configured.
type NumType uint8

const (
	NumUnset NumType = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Float64
)

// maxExactInt is the largest magnitude a float64 holds without losing integer precision.
const maxExactInt = 1 << 53

type numRange struct {
	name     string
	min, max float64
}

// numTable is indexed by NumType. Float64 has no integer range.
var numTable = [...]numRange{
	NumUnset: {name: ""},
	Uint8:    {name: "uint8", min: 0, max: math.MaxUint8},
	Int8:     {name: "int8", min: math.MinInt8, max: math.MaxInt8},
	Uint16:   {name: "uint16", min: 0, max: math.MaxUint16},
	Int16:    {name: "int16", min: math.MinInt16, max: math.MaxInt16},
	Uint32:   {name: "uint32", min: 0, max: math.MaxUint32},
	Int32:    {name: "int32", min: math.MinInt32, max: math.MaxInt32},
	Float64:  {name: "float64"},
}

// NumTypes lists the supported numeric types from narrowest to widest.
var NumTypes = []NumType{Uint8, Int8, Uint16, Int16, Uint32, Int32, Float64}

// ParseNumType maps a JTD type name to a NumType. The empty string yields NumUnset.
func ParseNumType(s string) (NumType, error) {
	if s == "" {
		return NumUnset, nil
	}
	for _, t := range NumTypes {
		if numTable[t].name == s {
			return t, nil
		}
	}
	return NumUnset, fmt.Errorf("%w: %q", ErrUnsupportedNumType, s)
}

func (t NumType) String() string {
	if int(t) >= len(numTable) {
		return fmt.Sprintf("NumType(%d)", t)
	}
	return numTable[t].name
}

// Range returns the inclusive integer bounds of t. ok is false for Float64 and NumUnset.
func (t NumType) Range() (lo, hi float64, ok bool) {
	if t == NumUnset || t >= Float64 {
		return 0, 0, false
	}
	r := numTable[t]
	return r.min, r.max, true
}

// Fits reports whether f is representable by t.
func (t NumType) Fits(f float64) bool {
	if t == Float64 {
		return true
	}
	lo, hi, ok := t.Range()
	return ok && isIntegral(f) && f >= lo && f <= hi
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) <= maxExactInt
}

// Number is the observed evidence at a numeric path.
type Number struct {
	Min, Max float64
	Integral bool
	Kind     NumType
}

func newNumber(f float64, def NumType) *Number {
	n := &Number{Min: f, Max: f, Integral: isIntegral(f)}
	n.Kind = n.classify(def)
	return n
}

// observe widens the number to also cover f.
func (n *Number) observe(f float64, def NumType) {
	n.Min = math.Min(n.Min, f)
	n.Max = math.Max(n.Max, f)
	n.Integral = n.Integral && isIntegral(f)
	n.Kind = widen(n.Kind, n.classify(def))
}

func (n *Number) join(o *Number, def NumType) {
	n.Min = math.Min(n.Min, o.Min)
	n.Max = math.Max(n.Max, o.Max)
	n.Integral = n.Integral && o.Integral
	n.Kind = widen(widen(n.Kind, o.Kind), n.classify(def))
}

// classify picks the kind for the evidence. With a default, the default is kept
// while every value fits it and Float64 is used otherwise.
func (n *Number) classify(def NumType) NumType {
	if def != NumUnset {
		if def == Float64 || (n.Integral && def.Fits(n.Min) && def.Fits(n.Max)) {
			return def
		}
		return Float64
	}
	if !n.Integral {
		return Float64
	}
	for _, t := range NumTypes {
		if t.Fits(n.Min) && t.Fits(n.Max) {
			return t
		}
	}
	return Float64
}

func widen(a, b NumType) NumType {
	if a > b {
		return a
	}
	return b
}
