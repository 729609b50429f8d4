package abi

import (
	"math"
	"reflect"
)

// Number is a classified Go numeric value. Integral reports whether the
// source type was an integer type; Int is only meaningful when it is.
type Number struct {
	Float    float64
	Int      int64
	Integral bool
}

// CoerceNumber classifies any Go numeric value, including named types whose
// underlying kind is numeric. Unsigned values above MaxInt64 are carried as
// floats since the wire number is a double anyway.
func CoerceNumber(value any) (Number, bool) {
	switch v := value.(type) {
	case int:
		return intNumber(int64(v)), true
	case int8:
		return intNumber(int64(v)), true
	case int16:
		return intNumber(int64(v)), true
	case int32:
		return intNumber(int64(v)), true
	case int64:
		return intNumber(v), true
	case uint8:
		return intNumber(int64(v)), true
	case uint16:
		return intNumber(int64(v)), true
	case uint32:
		return intNumber(int64(v)), true
	case uint:
		return uintNumber(uint64(v)), true
	case uint64:
		return uintNumber(v), true
	case float32:
		return Number{Float: float64(v)}, true
	case float64:
		return Number{Float: v}, true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intNumber(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintNumber(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return Number{Float: rv.Float()}, true
	}
	return Number{}, false
}

func intNumber(v int64) Number {
	return Number{Int: v, Float: float64(v), Integral: true}
}

func uintNumber(v uint64) Number {
	if v > math.MaxInt64 {
		return Number{Float: float64(v)}
	}
	return intNumber(int64(v))
}

// IntegralValue reports whether f equals its truncation and fits in int64.
// NaN and infinities are never integral.
func IntegralValue(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 is exactly representable; anything at or above it overflows.
	if f < -9223372036854775808.0 || f >= 9223372036854775808.0 {
		return 0, false
	}
	return int64(f), true
}
