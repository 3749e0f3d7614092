// Package populate resolves reference fields: it replaces a reference (or a
// list of references) with the full target document looked up from the store.
// Dangling references resolve to an explicit null, preserving positional
// alignment, and are reported as diagnostics rather than errors, since
// referential integrity is deliberately unenforced.
package populate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// Source looks up referenced documents. Implementations must return a copy
// the resolver may own; storage.Engine satisfies this. Unknown collections
// and unknown ids both report domain.ErrNotFound.
type Source interface {
	GetByID(collection, id string) (domain.Document, error)
}

// Diagnostic reports one dangling reference encountered during resolution.
type Diagnostic struct {
	DocID      string // id of the document holding the reference
	Field      string // field being resolved
	Collection string // referenced collection
	RefID      string // identifier with no matching document
	Position   int    // index within a reference list; -1 for a scalar reference
}

func (d Diagnostic) String() string {
	if d.Position >= 0 {
		return fmt.Sprintf("document %s: %s[%d] references %s/%s which does not exist",
			d.DocID, d.Field, d.Position, d.Collection, d.RefID)
	}
	return fmt.Sprintf("document %s: %s references %s/%s which does not exist",
		d.DocID, d.Field, d.Collection, d.RefID)
}

// Resolver expands reference fields against a Source.
type Resolver struct {
	src    Source
	logger *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver's logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver reading from src.
func NewResolver(src Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		src:    src,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures one Populate call.
type Option func(*callOptions)

type callOptions struct {
	nested string
}

// WithNested additionally resolves the named field of each resolved target
// document. Resolution recurses exactly one level, and only on this field.
func WithNested(subField string) Option {
	return func(o *callOptions) {
		o.nested = subField
	}
}

// Populate returns a copy of docs in which the named field's reference (or
// each reference in its list, positionally) is replaced by the full target
// document. The input documents and the store are never mutated.
//
// A dangling reference becomes an explicit null and a Diagnostic. A field
// holding anything other than a reference, a list of references, or null is
// an InvalidArgument. A document without the field is left unchanged.
func (r *Resolver) Populate(docs []domain.Document, field string, opts ...Option) ([]domain.Document, []Diagnostic, error) {
	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}

	out := make([]domain.Document, len(docs))
	var diags []Diagnostic
	for i, doc := range docs {
		resolved := doc.Clone()
		ds, err := r.populateDoc(resolved, field, call.nested)
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, ds...)
		out[i] = resolved
	}

	r.logger.Debug("populated field",
		zap.String("field", field),
		zap.Int("documents", len(out)),
		zap.Int("dangling", len(diags)))
	return out, diags, nil
}

// populateDoc resolves one field of one document in place. The document must
// already be the resolver's own copy.
func (r *Resolver) populateDoc(doc domain.Document, field, nested string) ([]Diagnostic, error) {
	val, ok := doc[field]
	if !ok || val.IsNull() {
		return nil, nil
	}

	switch val.Kind() {
	case domain.KindRef:
		ref, _ := val.RefVal()
		resolved, diags, err := r.resolveRef(doc.ID(), field, ref, -1, nested)
		if err != nil {
			return nil, err
		}
		doc[field] = resolved
		return diags, nil

	case domain.KindList:
		items, _ := val.ListVal()
		resolvedItems := make([]domain.Value, len(items))
		var diags []Diagnostic
		for i, item := range items {
			if item.IsNull() {
				resolvedItems[i] = item
				continue
			}
			ref, ok := item.RefVal()
			if !ok {
				return nil, fmt.Errorf("cannot populate field %q: element %d holds %s, not a reference: %w",
					field, i, item.Kind(), domain.ErrInvalidArgument)
			}
			resolved, ds, err := r.resolveRef(doc.ID(), field, ref, i, nested)
			if err != nil {
				return nil, err
			}
			resolvedItems[i] = resolved
			diags = append(diags, ds...)
		}
		doc[field] = domain.List(resolvedItems...)
		return diags, nil

	default:
		return nil, fmt.Errorf("cannot populate field %q: holds %s, not a reference: %w",
			field, val.Kind(), domain.ErrInvalidArgument)
	}
}

// resolveRef fetches one reference target. A missing target (or missing
// target collection) yields a null value plus a diagnostic.
func (r *Resolver) resolveRef(docID, field string, ref domain.Ref, pos int, nested string) (domain.Value, []Diagnostic, error) {
	target, err := r.src.GetByID(ref.Collection, ref.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			diag := Diagnostic{
				DocID:      docID,
				Field:      field,
				Collection: ref.Collection,
				RefID:      ref.ID,
				Position:   pos,
			}
			return domain.Null(), []Diagnostic{diag}, nil
		}
		return domain.Null(), nil, err
	}

	var diags []Diagnostic
	if nested != "" {
		ds, err := r.populateDoc(target, nested, "")
		if err != nil {
			return domain.Null(), nil, err
		}
		diags = ds
	}
	return domain.Embed(target), diags, nil
}
