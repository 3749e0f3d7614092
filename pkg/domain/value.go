package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the variants a field value can take.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindRef
	KindList
	KindDoc
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindRef:
		return "ref"
	case KindList:
		return "list"
	case KindDoc:
		return "doc"
	default:
		return "unknown"
	}
}

// Ref identifies a document in another collection. It carries no ownership;
// the referenced document's lifecycle is independent.
type Ref struct {
	Collection string
	ID         string
}

// Value is a tagged union holding one document field value: a scalar, a
// reference, a list of values, or an embedded sub-document. The zero Value
// is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	ref  Ref
	list []Value
	doc  Document
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// RefTo wraps a reference to a document in another collection.
func RefTo(collection, id string) Value {
	return Value{kind: KindRef, ref: Ref{Collection: collection, ID: id}}
}

// RefValue wraps an existing Ref.
func RefValue(r Ref) Value { return Value{kind: KindRef, ref: r} }

// List wraps a sequence of values.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Embed wraps a sub-document owned exclusively by its parent.
func Embed(doc Document) Value { return Value{kind: KindDoc, doc: doc} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolVal returns the boolean and whether the value holds one.
func (v Value) BoolVal() (bool, bool) { return v.b, v.kind == KindBool }

// IntVal returns the integer and whether the value holds one.
func (v Value) IntVal() (int64, bool) { return v.i, v.kind == KindInt }

// FloatVal returns the float and whether the value holds one.
func (v Value) FloatVal() (float64, bool) { return v.f, v.kind == KindFloat }

// Number returns the value as a float64 for either numeric kind.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// StringVal returns the string and whether the value holds one.
func (v Value) StringVal() (string, bool) { return v.s, v.kind == KindString }

// RefVal returns the reference and whether the value holds one.
func (v Value) RefVal() (Ref, bool) { return v.ref, v.kind == KindRef }

// ListVal returns the list and whether the value holds one. The returned
// slice is the value's own backing; callers that mutate must Clone first.
func (v Value) ListVal() ([]Value, bool) { return v.list, v.kind == KindList }

// DocVal returns the embedded sub-document and whether the value holds one.
func (v Value) DocVal() (Document, bool) { return v.doc, v.kind == KindDoc }

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return Value{kind: KindList, list: items}
	case KindDoc:
		return Value{kind: KindDoc, doc: v.doc.Clone()}
	default:
		return v
	}
}

// groupRank orders kinds for cross-kind sorting: null sorts first, then
// booleans, numbers, strings, references, lists, sub-documents.
func (v Value) groupRank() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindString:
		return 3
	case KindRef:
		return 4
	case KindList:
		return 5
	default:
		return 6
	}
}

// Comparable reports whether two values belong to the same ordering group,
// i.e. whether a range constraint between them is meaningful.
func (v Value) Comparable(other Value) bool {
	if v.kind == KindNull || other.kind == KindNull {
		return false
	}
	return v.groupRank() == other.groupRank()
}

// Compare totally orders two values: first by kind group, then within the
// group. Both numeric kinds compare numerically. The order is deterministic
// for every pair of values, which keeps sorting stable across runs.
func Compare(a, b Value) int {
	if ra, rb := a.groupRank(), b.groupRank(); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	case KindInt, KindFloat:
		if a.kind == KindInt && b.kind == KindInt {
			switch {
			case a.i < b.i:
				return -1
			case a.i > b.i:
				return 1
			}
			return 0
		}
		na, _ := a.Number()
		nb, _ := b.Number()
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindRef:
		if c := strings.Compare(a.ref.Collection, b.ref.Collection); c != 0 {
			return c
		}
		return strings.Compare(a.ref.ID, b.ref.ID)
	default:
		return strings.Compare(a.Key(), b.Key())
	}
}

// Equal compares two values. Numeric kinds compare by numeric value, so
// Int(5) equals Float(5). A reference compared against a string matches when
// the string equals the reference id, mirroring the unresolved JSON shape
// where a reference field holds a bare id.
func Equal(a, b Value) bool {
	if na, ok := a.Number(); ok {
		nb, ok := b.Number()
		return ok && na == nb
	}
	if a.kind == KindRef && b.kind == KindString {
		return a.ref.ID == b.s
	}
	if a.kind == KindString && b.kind == KindRef {
		return a.s == b.ref.ID
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindRef:
		return a.ref == b.ref
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	default:
		if len(a.doc) != len(b.doc) {
			return false
		}
		for k, av := range a.doc {
			bv, ok := b.doc[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
}

// Key returns a canonical string key for the value, used by the inverted
// index. Both numeric kinds key identically so an Int filter finds Float
// documents and vice versa.
func (v Value) Key() string {
	switch v.kind {
	case KindNull:
		return "z"
	case KindBool:
		if v.b {
			return "b:1"
		}
		return "b:0"
	case KindInt:
		return "n:" + strconv.FormatFloat(float64(v.i), 'g', -1, 64)
	case KindFloat:
		return "n:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return "s:" + v.s
	case KindRef:
		return "r:" + v.ref.Collection + "/" + v.ref.ID
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Key()
		}
		return "l:[" + strings.Join(parts, ",") + "]"
	default:
		fields := make([]string, 0, len(v.doc))
		for k := range v.doc {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		parts := make([]string, len(fields))
		for i, k := range fields {
			parts[i] = k + "=" + v.doc[k].Key()
		}
		return "d:{" + strings.Join(parts, ",") + "}"
	}
}

// MarshalJSON renders the value in its external shape: references as bare id
// strings, embedded and resolved documents as objects, null as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
