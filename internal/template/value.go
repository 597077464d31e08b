// internal/template/value.go
package template

import "strconv"

// Kind enumerates the closed set of variable bag value types.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindEntity
	KindList
)

// Entity is an object value whose fields are reached through dotted
// references like {{SPONSOR.logoUrl}} or {{this.name}}.
type Entity map[string]Value

// Vars is the variable bag for one render call. Constructed fresh per
// render, discarded after.
type Vars map[string]Value

// Value is a tagged union over the types a template variable can hold.
type Value struct {
	kind   Kind
	str    string
	num    float64
	b      bool
	fields Entity
	items  []Entity
}

func String(s string) Value { return Value{kind: KindString, str: s} }

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func Int(n int) Value { return Number(float64(n)) }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Object(fields Entity) Value { return Value{kind: KindEntity, fields: fields} }

func List(items []Entity) Value { return Value{kind: KindList, items: items} }

func (v Value) Kind() Kind { return v.kind }

// Truthy reports whether a conditional block keeps its body for this value.
// false, empty string and zero suppress the block; entities are always
// truthy; lists are truthy when non-empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	case KindEntity:
		return true
	case KindList:
		return len(v.items) > 0
	}
	return false
}

func (v Value) scalar() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// text returns the scalar string form; non-scalars render as empty.
func (v Value) text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v Value) field(name string) (Value, bool) {
	if v.kind != KindEntity {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}
