package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireRoundTrip_KeepsReferenceCollections(t *testing.T) {
	doc := Document{
		"_id":     String("1"),
		"title":   String("Dune"),
		"year":    Int(1965),
		"rating":  Float(4.5),
		"inPrint": Bool(true),
		"author":  RefTo("Author", "A1"),
		"sequels": List(RefTo("Book", "2"), RefTo("Book", "3")),
		"meta":    Embed(Document{"pages": Int(412), "note": Null()}),
	}

	wire := doc.ToWire()

	// References keep their target collection on the wire
	assert.Equal(t, map[string]interface{}{"$ref": "Author", "$id": "A1"}, wire["author"])

	back, err := DocumentFromWire(wire)
	require.NoError(t, err)
	for field, want := range doc {
		got, ok := back[field]
		require.True(t, ok, "field %s lost in round trip", field)
		assert.True(t, Equal(want, got), "field %s: want %v got %v", field, want, got)
	}

	ref, ok := back["author"].RefVal()
	require.True(t, ok)
	assert.Equal(t, Ref{Collection: "Author", ID: "A1"}, ref)
}

func TestFromWire_DecoderIntegerWidths(t *testing.T) {
	// msgpack and yaml decoders hand back assorted widths
	for _, raw := range []interface{}{int(7), int8(7), int16(7), int32(7), int64(7), uint8(7), uint64(7)} {
		v, err := FromWire(raw)
		require.NoError(t, err)
		i, ok := v.IntVal()
		require.True(t, ok, "raw %T", raw)
		assert.Equal(t, int64(7), i)
	}
}

func TestFromWire_PlainMapBecomesEmbeddedDoc(t *testing.T) {
	// A map that is not exactly {$ref, $id} is an embedded sub-document,
	// even if it contains one of the tags.
	v, err := FromWire(map[string]interface{}{"$ref": "Author", "$id": "A1", "extra": true})
	require.NoError(t, err)
	_, isDoc := v.DocVal()
	assert.True(t, isDoc)

	v, err = FromWire(map[string]interface{}{"$ref": "Author", "$id": 7})
	require.NoError(t, err)
	_, isDoc = v.DocVal()
	assert.True(t, isDoc)
}

func TestFromWire_UnsupportedType(t *testing.T) {
	_, err := FromWire(struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
