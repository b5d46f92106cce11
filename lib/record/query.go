package record

import (
	"encoding/json"
	"math"
	"reflect"
)

// Matches returns true if every field of the query is present in the record and
// strictly equal to the record's value. The empty query matches everything.
//
// Thread-safety: Matches does not modify its arguments and can be called
// concurrently as long as nobody writes to the record at the same time.
func Matches(r Record, q Query) bool {
	for k, expected := range q {
		actual, ok := r[k]
		if !ok {
			return false
		}
		if !StrictEqual(actual, expected) {
			return false
		}
	}
	return true
}

// Filter returns the records matching the query in their original order.
// The returned slice shares the records with the input.
func Filter(records []Record, q Query) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if Matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// MatchingIndices returns the positions of all records matching the query,
// evaluated once against the current contents of records.
func MatchingIndices(records []Record, q Query) []int {
	indices := make([]int, 0)
	for i, r := range records {
		if Matches(r, q) {
			indices = append(indices, i)
		}
	}
	return indices
}

// StrictEqual compares two scalar JSON values without coercion.
// Numbers of any Go numeric type compare by value, everything else must have
// the same kind. Mappings and sequences are never equal.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	// integers are compared exactly, independent of their Go type
	if ia, ok := toInteger(a); ok {
		if ib, ok := toInteger(b); ok {
			return ia.equal(ib)
		}
		if fb, ok := toNumber(b); ok {
			return ia.equalFloat(fb)
		}
		return false
	}
	if ib, ok := toInteger(b); ok {
		fa, ok := toNumber(a)
		return ok && ib.equalFloat(fa)
	}

	// all other numbers are compared as float64
	if fa, ok := toNumber(a); ok {
		fb, ok := toNumber(b)
		return ok && fa == fb
	}

	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	default:
		return false
	}
}

// integer is a signed or unsigned Go integer value
type integer struct {
	signed   int64
	unsigned uint64
	isSigned bool
}

// toInteger returns the value of any Go integer kind
func toInteger(v any) (integer, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return integer{signed: rv.Int(), isSigned: true}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return integer{unsigned: rv.Uint()}, true
	default:
		return integer{}, false
	}
}

func (i integer) equal(o integer) bool {
	switch {
	case i.isSigned && o.isSigned:
		return i.signed == o.signed
	case !i.isSigned && !o.isSigned:
		return i.unsigned == o.unsigned
	case i.isSigned:
		return i.signed >= 0 && uint64(i.signed) == o.unsigned
	default:
		return o.signed >= 0 && uint64(o.signed) == i.unsigned
	}
}

// equalFloat is true if f is integral and has exactly the value of i
func (i integer) equalFloat(f float64) bool {
	if f != math.Trunc(f) {
		return false
	}
	if i.isSigned {
		return f >= -(1<<63) && f < (1<<63) && int64(f) == i.signed
	}
	return f >= 0 && f < (1<<64) && uint64(f) == i.unsigned
}

// toNumber converts any Go numeric value (and json.Number) to float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
