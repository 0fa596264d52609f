// Package storage plans how a union stores its payloads and renders the
// expressions reading and writing them.
package storage

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/derive"
	"github.com/sublee/tagunion/internal/tagunion/schema"
	"github.com/sublee/tagunion/internal/words"
)

// Kind is a storage layout.
type Kind int

const (
	// TagOnly stores only the tag. Every alternative is void.
	TagOnly Kind = iota

	// Overlay stores every payload in the same array of words. It requires
	// payloads free of pointers and locks.
	Overlay

	// Fields stores each payload in its own field. Fields of inactive
	// alternatives hold zero values.
	Fields
)

func (k Kind) String() string {
	switch k {
	case TagOnly:
		return "tag-only"
	case Overlay:
		return "overlay"
	case Fields:
		return "fields"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Choose chooses the layout of a union. Overlay needs at least two payloads
// to save anything.
func Choose(s *schema.Schema, b derive.Bundle, noOverlay bool) Kind {
	n := len(s.Payloads())
	switch {
	case n == 0:
		return TagOnly
	case n >= 2 && b.PointerFree && b.Move && !noOverlay:
		return Overlay
	}
	return Fields
}

// Layout is the storage plan of a union.
type Layout struct {
	Kind Kind

	// Tag is the name of the tag field.
	Tag string

	// Data is the name of the word array of the overlay layout.
	Data string

	schema *schema.Schema
	fields map[string]string
}

// New plans the storage of the union. Field names are taken from members,
// which must already hold the method names of the union.
func New(s *schema.Schema, kind Kind, members codefmt.NS) *Layout {
	l := &Layout{
		Kind:   kind,
		Tag:    members.Name("tag"),
		schema: s,
		fields: make(map[string]string),
	}

	switch kind {
	case Overlay:
		l.Data = members.Name("data")
	case Fields:
		for _, alt := range s.Payloads() {
			name := words.Camel(alt.Accessor)
			if token.IsKeyword(name) {
				// map, type, func, ...
				name += "_"
			}
			l.fields[alt.Name] = members.Name(name)
		}
	}
	return l
}

// Field returns the field name holding the payload of the alternative in the
// fields layout.
func (l *Layout) Field(alt *schema.Alternative) string {
	return l.fields[alt.Name]
}

// Decl writes the field declarations of the union struct. The tag field comes
// first.
func (l *Layout) Decl(w *codefmt.Writer, tagType string) {
	w.Printf("\t%s %s\n", l.Tag, tagType)

	switch l.Kind {
	case Overlay:
		unsafeName := w.Import("unsafe", "")
		var sizes []string
		for _, alt := range l.schema.Payloads() {
			sizes = append(sizes, w.Sprintf("%s.Sizeof(*new(%t))", unsafeName, alt.Payload))
		}
		w.Printf("\t%s [(max(%s) + 7) / 8]uint64\n", l.Data, strings.Join(sizes, ", "))

	case Fields:
		for _, alt := range l.schema.Payloads() {
			w.Printf("\t%s %t\n", l.Field(alt), alt.Payload)
		}
	}
}

// Ptr returns an expression of the pointer to the payload of the alternative.
// recv must be an addressable union or a pointer to it.
func (l *Layout) Ptr(w *codefmt.Writer, alt *schema.Alternative, recv string) string {
	switch l.Kind {
	case Overlay:
		unsafeName := w.Import("unsafe", "")
		return w.Sprintf("(*%t)(%s.Pointer(&%s.%s))", alt.Payload, unsafeName, recv, l.Data)
	case Fields:
		return fmt.Sprintf("&%s.%s", recv, l.Field(alt))
	}
	panic("no payload in tag-only layout")
}

// Ref returns an addressable expression of the payload of the alternative.
// Methods with pointer receivers can be called on it.
func (l *Layout) Ref(w *codefmt.Writer, alt *schema.Alternative, recv string) string {
	switch l.Kind {
	case Overlay:
		return l.Ptr(w, alt, recv)
	case Fields:
		return fmt.Sprintf("%s.%s", recv, l.Field(alt))
	}
	panic("no payload in tag-only layout")
}

// Val returns an assignable expression of the payload of the alternative.
func (l *Layout) Val(w *codefmt.Writer, alt *schema.Alternative, recv string) string {
	switch l.Kind {
	case Overlay:
		return "*" + l.Ptr(w, alt, recv)
	case Fields:
		return l.Ref(w, alt, recv)
	}
	panic("no payload in tag-only layout")
}

// NeedsRelease reports whether storage may need clearing after the payload of
// an alternative goes away. Only the fields layout has storage of its own per
// alternative.
func (k Kind) NeedsRelease() bool {
	return k == Fields
}

func (l *Layout) NeedsRelease() bool {
	return l.Kind.NeedsRelease()
}

// Release writes a statement clearing the storage of the alternative without
// cleanup.
func (l *Layout) Release(w *codefmt.Writer, alt *schema.Alternative, recv string) {
	if !l.NeedsRelease() {
		return
	}
	w.Printf("%s = %z\n", l.Val(w, alt, recv), alt.Payload)
}
