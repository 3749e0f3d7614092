package domain

import "fmt"

// Condition constrains a single field. Exactly one of Eq/In or a range
// (any combination of Gt/Gte and Lt/Lte bounds) must be set.
type Condition struct {
	Eq  *Value
	Gt  *Value
	Gte *Value
	Lt  *Value
	Lte *Value
	In  []Value
}

// Eq builds an equality condition.
func Eq(v Value) Condition { return Condition{Eq: &v} }

// Gt builds a strict lower-bound condition.
func Gt(v Value) Condition { return Condition{Gt: &v} }

// Gte builds an inclusive lower-bound condition.
func Gte(v Value) Condition { return Condition{Gte: &v} }

// Lt builds a strict upper-bound condition.
func Lt(v Value) Condition { return Condition{Lt: &v} }

// Lte builds an inclusive upper-bound condition.
func Lte(v Value) Condition { return Condition{Lte: &v} }

// In builds a membership condition.
func In(vs ...Value) Condition { return Condition{In: vs} }

// Between builds a half-open range condition: gte <= x < lt.
func Between(gte, lt Value) Condition { return Condition{Gte: &gte, Lt: &lt} }

func (c Condition) hasRange() bool {
	return c.Gt != nil || c.Gte != nil || c.Lt != nil || c.Lte != nil
}

// Validate checks the condition is well formed.
func (c Condition) Validate() error {
	clauses := 0
	if c.Eq != nil {
		clauses++
	}
	if c.In != nil {
		clauses++
	}
	if c.hasRange() {
		clauses++
	}
	if clauses == 0 {
		return fmt.Errorf("empty condition: %w", ErrInvalidArgument)
	}
	if clauses > 1 {
		return fmt.Errorf("condition mixes equality, membership and range clauses: %w", ErrInvalidArgument)
	}
	if c.Gt != nil && c.Gte != nil {
		return fmt.Errorf("condition sets both gt and gte: %w", ErrInvalidArgument)
	}
	if c.Lt != nil && c.Lte != nil {
		return fmt.Errorf("condition sets both lt and lte: %w", ErrInvalidArgument)
	}
	return nil
}

// Filter maps field names to conditions. A document matches when every
// condition is satisfied; an empty filter matches every document.
type Filter map[string]Condition

// Validate checks every condition in the filter.
func (f Filter) Validate() error {
	for field, cond := range f {
		if err := cond.Validate(); err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
	}
	return nil
}

// SortSpec names the sort key and direction.
type SortSpec struct {
	Field string
	Desc  bool
}

// PageSpec windows a result sequence: drop Offset leading documents, keep at
// most Limit.
type PageSpec struct {
	Offset int
	Limit  int
}

// FindOptions controls the sort/paginate stage and the optional
// where-expression applied after the field filter.
type FindOptions struct {
	Sort *SortSpec
	Page *PageSpec

	// Where is an optional boolean expression evaluated per document, e.g.
	// `year >= 1960 && author != ""`. Fields appear under their names in
	// their external (plain) form.
	Where string
}

// Validate validates the options. Negative pagination bounds are rejected.
func (o *FindOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.Page != nil {
		if o.Page.Offset < 0 {
			return fmt.Errorf("offset cannot be negative: %w", ErrInvalidArgument)
		}
		if o.Page.Limit < 0 {
			return fmt.Errorf("limit cannot be negative: %w", ErrInvalidArgument)
		}
	}
	if o.Sort != nil && o.Sort.Field == "" {
		return fmt.Errorf("sort field cannot be empty: %w", ErrInvalidArgument)
	}
	return nil
}
