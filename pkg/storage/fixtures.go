package storage

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// fixtureFile is the YAML shape for seeding a store. References are written
// as {$ref: Collection, $id: X} maps:
//
//	schemas:
//	  Book: '{"type":"object","required":["title"]}'
//	indexes:
//	  Book: [author]
//	collections:
//	  Book:
//	    - _id: "1"
//	      title: Dune
//	      author: {$ref: Author, $id: A1}
type fixtureFile struct {
	Schemas     map[string]string                   `yaml:"schemas"`
	Indexes     map[string][]string                 `yaml:"indexes"`
	Collections map[string][]map[string]interface{} `yaml:"collections"`
}

// LoadFixture seeds the store from YAML fixture data: schemas first, then
// documents in their listed order, then indexes built over the loaded data.
func (e *Engine) LoadFixture(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	var fixture fixtureFile
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("failed to parse fixture YAML: %v: %w", err, domain.ErrInvalidArgument)
	}

	for collName, schemaJSON := range fixture.Schemas {
		if err := e.SetSchema(collName, schemaJSON); err != nil {
			return err
		}
	}

	collNames := make([]string, 0, len(fixture.Collections))
	for collName := range fixture.Collections {
		collNames = append(collNames, collName)
	}
	sort.Strings(collNames)

	total := 0
	for _, collName := range collNames {
		for i, rawDoc := range fixture.Collections[collName] {
			doc, err := domain.DocumentFromWire(rawDoc)
			if err != nil {
				return fmt.Errorf("fixture collection %s, document %d: %w", collName, i, err)
			}
			if _, err := e.Insert(collName, doc); err != nil {
				return fmt.Errorf("fixture collection %s, document %d: %w", collName, i, err)
			}
			total++
		}
	}

	for collName, fields := range fixture.Indexes {
		for _, field := range fields {
			if err := e.CreateIndex(collName, field); err != nil {
				return err
			}
		}
	}

	e.logger.Info("loaded fixture",
		zap.Int("collections", len(fixture.Collections)),
		zap.Int("documents", total))
	return nil
}

// LoadFixtureFile seeds the store from a YAML fixture on disk.
func (e *Engine) LoadFixtureFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer file.Close()

	return e.LoadFixture(file)
}
