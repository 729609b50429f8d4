package ql2

import (
	"strconv"
	"strings"
)

// DatumType tags the populated variant of a Datum.
type DatumType uint8

const (
	R_NULL   DatumType = 1
	R_BOOL   DatumType = 2
	R_NUM    DatumType = 3
	R_STR    DatumType = 4
	R_ARRAY  DatumType = 5
	R_OBJECT DatumType = 6
)

var datumTypeNames = [...]string{
	R_NULL:   "R_NULL",
	R_BOOL:   "R_BOOL",
	R_NUM:    "R_NUM",
	R_STR:    "R_STR",
	R_ARRAY:  "R_ARRAY",
	R_OBJECT: "R_OBJECT",
}

func (t DatumType) String() string {
	if int(t) < len(datumTypeNames) && datumTypeNames[t] != "" {
		return datumTypeNames[t]
	}
	return "DatumType(" + strconv.Itoa(int(t)) + ")"
}

// Datum is a tagged wire value. Exactly one field matching Type is meaningful.
type Datum struct {
	Str    string
	Array  []*Datum
	Object []DatumPair
	Num    float64
	Type   DatumType
	Bool   bool
}

// DatumPair is one key/value entry of an R_OBJECT datum. Keys may repeat.
type DatumPair struct {
	Val *Datum
	Key string
}

// NullDatum returns an R_NULL datum.
func NullDatum() *Datum { return &Datum{Type: R_NULL} }

// BoolDatum returns an R_BOOL datum.
func BoolDatum(v bool) *Datum { return &Datum{Type: R_BOOL, Bool: v} }

// NumDatum returns an R_NUM datum.
func NumDatum(v float64) *Datum { return &Datum{Type: R_NUM, Num: v} }

// StrDatum returns an R_STR datum.
func StrDatum(v string) *Datum { return &Datum{Type: R_STR, Str: v} }

// ArrayDatum returns an R_ARRAY datum holding items.
func ArrayDatum(items ...*Datum) *Datum { return &Datum{Type: R_ARRAY, Array: items} }

// ObjectDatum returns an R_OBJECT datum holding pairs in order.
func ObjectDatum(pairs ...DatumPair) *Datum { return &Datum{Type: R_OBJECT, Object: pairs} }

// Clone returns a deep copy of d.
func (d *Datum) Clone() *Datum {
	if d == nil {
		return nil
	}
	c := *d
	if d.Array != nil {
		c.Array = make([]*Datum, len(d.Array))
		for i, item := range d.Array {
			c.Array[i] = item.Clone()
		}
	}
	if d.Object != nil {
		c.Object = make([]DatumPair, len(d.Object))
		for i, p := range d.Object {
			c.Object[i] = DatumPair{Key: p.Key, Val: p.Val.Clone()}
		}
	}
	return &c
}

// String renders d in a compact debug form, used for envelope dumps.
func (d *Datum) String() string {
	var b strings.Builder
	d.writeTo(&b)
	return b.String()
}

func (d *Datum) writeTo(b *strings.Builder) {
	if d == nil {
		b.WriteString("<nil>")
		return
	}
	switch d.Type {
	case R_NULL:
		b.WriteString("null")
	case R_BOOL:
		b.WriteString(strconv.FormatBool(d.Bool))
	case R_NUM:
		b.WriteString(strconv.FormatFloat(d.Num, 'g', -1, 64))
	case R_STR:
		b.WriteString(strconv.Quote(d.Str))
	case R_ARRAY:
		b.WriteByte('[')
		for i, item := range d.Array {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeTo(b)
		}
		b.WriteByte(']')
	case R_OBJECT:
		b.WriteByte('{')
		for i, p := range d.Object {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(p.Key))
			b.WriteString(": ")
			p.Val.writeTo(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString(d.Type.String())
	}
}
