package domain

// IDField is the document identifier field. Its value is always a string,
// unique within a collection.
const IDField = "_id"

// Document represents one record: a mapping from field name to value.
type Document map[string]Value

// ID returns the document's identifier, or "" if it has none yet.
func (d Document) ID() string {
	if v, ok := d[IDField]; ok {
		if s, ok := v.StringVal(); ok {
			return s
		}
	}
	return ""
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// Collection is a named, insertion-ordered sequence of documents. Order holds
// document ids in insertion order; Documents maps id to document.
type Collection struct {
	Name      string
	Order     []string
	Documents map[string]Document
}

// NewCollection creates an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{
		Name:      name,
		Documents: make(map[string]Document),
	}
}

// Append adds a document under the given id at the end of the collection.
// The caller is responsible for uniqueness checks.
func (c *Collection) Append(id string, doc Document) {
	c.Documents[id] = doc
	c.Order = append(c.Order, id)
}

// Remove deletes a document by id, preserving the order of the rest.
func (c *Collection) Remove(id string) {
	if _, ok := c.Documents[id]; !ok {
		return
	}
	delete(c.Documents, id)
	for i, existing := range c.Order {
		if existing == id {
			c.Order = append(c.Order[:i], c.Order[i+1:]...)
			break
		}
	}
}

// Len returns the number of documents in the collection.
func (c *Collection) Len() int { return len(c.Order) }
