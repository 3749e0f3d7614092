package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null equals null", Null(), Null(), true},
		{"int equals int", Int(5), Int(5), true},
		{"int equals float", Int(5), Float(5.0), true},
		{"int not equals other int", Int(5), Int(6), false},
		{"string case sensitive", String("Dune"), String("dune"), false},
		{"ref equals ref", RefTo("Author", "A1"), RefTo("Author", "A1"), true},
		{"ref differs by collection", RefTo("Author", "A1"), RefTo("Book", "A1"), false},
		{"ref equals bare id string", RefTo("Author", "A1"), String("A1"), true},
		{"bare id string equals ref", String("A1"), RefTo("Author", "A1"), true},
		{"list elementwise", List(Int(1), Int(2)), List(Int(1), Float(2)), true},
		{"list length mismatch", List(Int(1)), List(Int(1), Int(2)), false},
		{"doc fieldwise", Embed(Document{"a": Int(1)}), Embed(Document{"a": Float(1)}), true},
		{"null not equals string", Null(), String(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestValue_Compare(t *testing.T) {
	// Within a group
	assert.Negative(t, Compare(Int(1), Int(2)))
	assert.Positive(t, Compare(Float(2.5), Int(2)))
	assert.Zero(t, Compare(Int(3), Float(3.0)))
	assert.Negative(t, Compare(String("Dune"), String("Hobbit")))
	assert.Negative(t, Compare(Bool(false), Bool(true)))
	assert.Negative(t, Compare(RefTo("Author", "A1"), RefTo("Author", "A2")))

	// Across groups the order is deterministic: null < bool < number < string
	assert.Negative(t, Compare(Null(), Bool(false)))
	assert.Negative(t, Compare(Bool(true), Int(0)))
	assert.Negative(t, Compare(Int(999), String("")))
	assert.Negative(t, Compare(String("zzz"), RefTo("A", "1")))
}

func TestValue_Comparable(t *testing.T) {
	assert.True(t, Int(1).Comparable(Float(2)))
	assert.True(t, String("a").Comparable(String("b")))
	assert.False(t, Int(1).Comparable(String("1")))
	assert.False(t, Null().Comparable(Null()))
	assert.False(t, Int(1).Comparable(Null()))
}

func TestValue_Key_NumericKindsAgree(t *testing.T) {
	assert.Equal(t, Int(5).Key(), Float(5.0).Key())
	assert.NotEqual(t, Int(5).Key(), String("5").Key())
	assert.NotEqual(t, RefTo("Author", "A1").Key(), String("A1").Key())
}

func TestValue_Clone_Deep(t *testing.T) {
	inner := Document{"name": String("Frank Herbert")}
	v := List(Embed(inner), Int(1))

	clone := v.Clone()
	items, ok := clone.ListVal()
	require.True(t, ok)
	doc, ok := items[0].DocVal()
	require.True(t, ok)
	doc["name"] = String("changed")

	assert.Equal(t, String("Frank Herbert"), inner["name"])
}

func TestValue_MarshalJSON_ReferenceShape(t *testing.T) {
	doc := Document{
		"_id":    String("1"),
		"title":  String("Dune"),
		"author": RefTo("Author", "A1"),
		"tags":   List(RefTo("Tag", "t1"), Null(), RefTo("Tag", "t2")),
		"stats":  Embed(Document{"pages": Int(412)}),
	}

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Unresolved references marshal as bare id strings; null entries stay
	// null so positions line up.
	assert.Equal(t, "A1", decoded["author"])
	assert.Equal(t, []interface{}{"t1", nil, "t2"}, decoded["tags"])
	assert.Equal(t, map[string]interface{}{"pages": float64(412)}, decoded["stats"])
}

func TestDocument_IDAndClone(t *testing.T) {
	doc := Document{"_id": String("42"), "title": String("Dune")}
	assert.Equal(t, "42", doc.ID())
	assert.Equal(t, "", Document{"_id": Int(42)}.ID())
	assert.Equal(t, "", Document{}.ID())

	clone := doc.Clone()
	clone["title"] = String("Hobbit")
	assert.Equal(t, String("Dune"), doc["title"])
}

func TestCollection_OrderMaintained(t *testing.T) {
	coll := NewCollection("Book")
	coll.Append("1", Document{"_id": String("1")})
	coll.Append("2", Document{"_id": String("2")})
	coll.Append("3", Document{"_id": String("3")})

	coll.Remove("2")
	assert.Equal(t, []string{"1", "3"}, coll.Order)
	assert.Equal(t, 2, coll.Len())

	// Removing an unknown id is a no-op
	coll.Remove("99")
	assert.Equal(t, 2, coll.Len())
}
