// Package schema models the alternatives of a tagged union.
package schema

import (
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/emirpasic/gods/maps/hashbidimap"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/samber/lo"
)

// Alternative is one case of a union: a tag with zero or one payload.
type Alternative struct {
	// Field is the field of the schema struct declaring the alternative.
	Field *types.Var

	// Index is the value of the tag. It starts at 1 because 0 is reserved
	// for the unset state.
	Index int

	// Name is the alternative name in PascalCase. It is the base of the
	// generated identifiers such as tag constants and constructors.
	Name string

	// Payload is the payload type. It is nil for void alternatives.
	Payload types.Type

	// Accessor is the name of the accessor method. It is empty for void
	// alternatives.
	Accessor string
}

func (a *Alternative) IsVoid() bool     { return a.Payload == nil }
func (a *Alternative) Pos() token.Pos   { return a.Field.Pos() }
func (a *Alternative) Type() types.Type { return a.Payload }

func (a *Alternative) String() string {
	if a.IsVoid() {
		return a.Field.Name() + " (void)"
	}
	return fmt.Sprintf("%s %s", a.Field.Name(), a.Payload)
}

// Schema is the ordered and closed set of alternatives of a union. Names and
// accessors of the alternatives are unique.
type Schema struct {
	// Named is the union type.
	Named *types.Named

	alts      *linkedhashmap.Map // key: Name, value: *Alternative
	accessors *hashbidimap.Map   // key: Accessor, value: Name
}

// New creates an empty schema for the union type.
func New(named *types.Named) *Schema {
	return &Schema{
		Named:     named,
		alts:      linkedhashmap.New(),
		accessors: hashbidimap.New(),
	}
}

// Name returns the name of the union type.
func (s *Schema) Name() string { return s.Named.Obj().Name() }

// Pos returns the position of the union type declaration.
func (s *Schema) Pos() token.Pos { return s.Named.Obj().Pos() }

// Type returns the union type.
func (s *Schema) Type() types.Type { return s.Named }

// Add appends an alternative. Its Index is assigned by declaration order. It
// fails if the name or the accessor is already taken.
func (s *Schema) Add(alt *Alternative) error {
	if prev, ok := s.Lookup(alt.Name); ok {
		return fmt.Errorf("alternative %s conflicts with %s", alt.Field.Name(), prev.Field.Name())
	}
	if alt.Accessor != "" {
		if name, ok := s.accessors.Get(alt.Accessor); ok {
			prev, _ := s.Lookup(name.(string))
			return fmt.Errorf("accessor %s of %s is already used by %s", alt.Accessor, alt.Field.Name(), prev.Field.Name())
		}
		s.accessors.Put(alt.Accessor, alt.Name)
	}

	alt.Index = s.alts.Size() + 1
	s.alts.Put(alt.Name, alt)
	return nil
}

// Len returns the number of alternatives.
func (s *Schema) Len() int { return s.alts.Size() }

// Alternatives returns all alternatives in declaration order.
func (s *Schema) Alternatives() []*Alternative {
	alts := make([]*Alternative, 0, s.alts.Size())
	for it := s.alts.Iterator(); it.Next(); {
		alts = append(alts, it.Value().(*Alternative))
	}
	return alts
}

// Payloads returns the alternatives carrying payload in declaration order.
func (s *Schema) Payloads() []*Alternative {
	return lo.Filter(s.Alternatives(), func(alt *Alternative, _ int) bool {
		return !alt.IsVoid()
	})
}

// Lookup finds an alternative by name.
func (s *Schema) Lookup(name string) (*Alternative, bool) {
	alt, ok := s.alts.Get(name)
	if !ok {
		return nil, false
	}
	return alt.(*Alternative), true
}

// ByAccessor finds an alternative by its accessor name.
func (s *Schema) ByAccessor(accessor string) (*Alternative, bool) {
	name, ok := s.accessors.Get(accessor)
	if !ok {
		return nil, false
	}
	return s.Lookup(name.(string))
}

// AccessorOf returns the accessor name of the alternative.
func (s *Schema) AccessorOf(name string) (string, bool) {
	accessor, ok := s.accessors.GetKey(name)
	if !ok {
		return "", false
	}
	return accessor.(string), true
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString(s.Name())
	b.WriteString("{")
	for i, alt := range s.Alternatives() {
		if i != 0 {
			b.WriteString("; ")
		}
		b.WriteString(alt.String())
	}
	b.WriteString("}")
	return b.String()
}
