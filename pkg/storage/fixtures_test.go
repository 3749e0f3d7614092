package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

const catalogFixture = `
schemas:
  Author: '{"type":"object","required":["name"]}'
indexes:
  Book: [author]
collections:
  Book:
    - _id: "1"
      title: Dune
      year: 1965
      author: {$ref: Author, $id: A1}
    - _id: "2"
      title: Hobbit
      author: {$ref: Author, $id: A2}
  Author:
    - _id: A1
      name: Frank Herbert
`

func TestLoadFixture(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.LoadFixture(strings.NewReader(catalogFixture)))

	docs, err := engine.Find("Book", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(docs))

	// References decode with their target collection
	assert.Equal(t, domain.RefTo("Author", "A1"), docs[0]["author"])
	assert.Equal(t, domain.Int(1965), docs[0]["year"])

	// Declared indexes are built over the loaded documents
	fields, err := engine.GetIndexes("Book")
	require.NoError(t, err)
	assert.Equal(t, []string{"author"}, fields)

	// Declared schemas apply to later writes
	_, err = engine.Insert("Author", domain.Document{"_id": domain.String("A9")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoadFixture_SchemaAppliesToFixtureDocs(t *testing.T) {
	engine := NewEngine()
	err := engine.LoadFixture(strings.NewReader(`
schemas:
  Author: '{"type":"object","required":["name"]}'
collections:
  Author:
    - _id: A1
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoadFixture_BadYAML(t *testing.T) {
	engine := NewEngine()
	err := engine.LoadFixture(strings.NewReader("collections: ["))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
