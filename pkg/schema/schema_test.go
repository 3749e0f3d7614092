package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

const bookSchema = `{
	"type": "object",
	"required": ["title", "author"],
	"properties": {
		"title": {"type": "string"},
		"author": {"type": "string"},
		"year": {"type": "integer"}
	}
}`

func TestRegistry_Validate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Book", bookSchema))

	// Reference fields validate as strings, their external shape
	err := reg.Validate("Book", domain.Document{
		"_id":    domain.String("1"),
		"title":  domain.String("Dune"),
		"author": domain.RefTo("Author", "A1"),
		"year":   domain.Int(1965),
	})
	assert.NoError(t, err)

	err = reg.Validate("Book", domain.Document{
		"_id":   domain.String("2"),
		"title": domain.String("Hobbit"),
		"year":  domain.String("not a year"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "Book")
}

func TestRegistry_NoSchemaAcceptsEverything(t *testing.T) {
	reg := NewRegistry()
	assert.NoError(t, reg.Validate("Book", domain.Document{"anything": domain.Null()}))
}

func TestRegistry_RegisterRejectsBadSchema(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("Book", `{"type": 42}`)
	require.Error(t, err)
}

func TestRegistry_Replace(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Book", bookSchema))

	require.NoError(t, reg.Replace(map[string]string{
		"Author": `{"type":"object","required":["name"]}`,
	}))

	// The old schema is dropped, the new one enforced
	_, ok := reg.Raw("Book")
	assert.False(t, ok)
	err := reg.Validate("Author", domain.Document{"_id": domain.String("A1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	// A schema that fails to compile leaves the registry untouched
	err = reg.Replace(map[string]string{"X": `{"type": 42}`})
	require.Error(t, err)
	_, ok = reg.Raw("Author")
	assert.True(t, ok)
}

func TestRegistry_RawExportRemove(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Book", bookSchema))

	raw, ok := reg.Raw("Book")
	require.True(t, ok)
	assert.Equal(t, bookSchema, raw)

	dump := reg.Export()
	assert.Equal(t, map[string]string{"Book": bookSchema}, dump)

	reg.Remove("Book")
	_, ok = reg.Raw("Book")
	assert.False(t, ok)
	assert.NoError(t, reg.Validate("Book", domain.Document{}))
}
