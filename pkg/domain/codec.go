package domain

import (
	"fmt"
	"math"
)

// Wire field tags for references. A map holding exactly these two string
// fields round-trips as a Ref through snapshots and fixtures.
const (
	wireRefCollection = "$ref"
	wireRefID         = "$id"
)

// Interface converts the value to its external plain form: references become
// bare id strings, lists become []interface{}, sub-documents become
// map[string]interface{}. This form feeds JSON marshalling, schema
// validation, and filter expressions.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindRef:
		return v.ref.ID
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	default:
		return v.doc.Interface()
	}
}

// Interface converts the document to a plain map, field by field.
func (d Document) Interface() map[string]interface{} {
	out := make(map[string]interface{}, len(d))
	for k, v := range d {
		out[k] = v.Interface()
	}
	return out
}

// ToWire converts the value to its storage form. Unlike Interface, references
// keep their target collection, encoded as a {$ref, $id} map, so the value
// survives a round trip.
func (v Value) ToWire() interface{} {
	switch v.kind {
	case KindRef:
		return map[string]interface{}{
			wireRefCollection: v.ref.Collection,
			wireRefID:         v.ref.ID,
		}
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.ToWire()
		}
		return out
	case KindDoc:
		return v.doc.ToWire()
	default:
		return v.Interface()
	}
}

// ToWire converts the document to its storage form.
func (d Document) ToWire() map[string]interface{} {
	out := make(map[string]interface{}, len(d))
	for k, v := range d {
		out[k] = v.ToWire()
	}
	return out
}

// FromWire converts a decoded storage value (from msgpack or YAML) back into
// a Value. Maps carrying exactly the {$ref, $id} string pair become
// references; every other map becomes an embedded sub-document.
func FromWire(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Float(float64(t)), nil
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []interface{}:
		items := make([]Value, len(t))
		for i, raw := range t {
			item, err := FromWire(raw)
			if err != nil {
				return Null(), err
			}
			items[i] = item
		}
		return List(items...), nil
	case map[string]interface{}:
		if ref, ok := wireRef(t); ok {
			return RefValue(ref), nil
		}
		doc, err := DocumentFromWire(t)
		if err != nil {
			return Null(), err
		}
		return Embed(doc), nil
	default:
		return Null(), fmt.Errorf("unsupported wire value of type %T: %w", x, ErrInvalidArgument)
	}
}

// DocumentFromWire converts a decoded storage map into a Document.
func DocumentFromWire(raw map[string]interface{}) (Document, error) {
	doc := make(Document, len(raw))
	for k, rawVal := range raw {
		v, err := FromWire(rawVal)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		doc[k] = v
	}
	return doc, nil
}

func wireRef(m map[string]interface{}) (Ref, bool) {
	if len(m) != 2 {
		return Ref{}, false
	}
	coll, ok := m[wireRefCollection].(string)
	if !ok {
		return Ref{}, false
	}
	id, ok := m[wireRefID].(string)
	if !ok {
		return Ref{}, false
	}
	return Ref{Collection: coll, ID: id}, true
}
