// Package tagunion provides directives for tagged union code generation.
//
// Go has no sum types. Tagunion fills the gap: declare the alternatives of a
// union once, and the generator produces a value type holding exactly one of
// them at a time, along with constructors, checked accessors, reassignment,
// copy, move, equality, and cleanup. Which of these operations exist is derived
// from the payload types themselves. A union of copyable payloads can be
// cloned. A union holding a payload with a lock cannot. A union whose payloads
// need no cleanup gets an empty Destroy.
//
// To start with Tagunion, add a build constraint to files containing
// Tagunion directives:
//
//	//go:build tagunion
//
// A union is declared as a type definition of [Union]. Each field of the
// schema struct is an alternative. The field name is the tag, and the field
// type is the payload. [Void] marks an alternative without payload:
//
//	// source:
//	type Value tagunion.Union[struct {
//		STRING  string `tagunion:"Text"`
//		INTEGER int
//		NONE    tagunion.Void
//	}]
//
//	// generated: (simplified)
//	type ValueTag uint8
//
//	const (
//		ValueUnset ValueTag = iota
//		ValueString
//		ValueInteger
//		ValueNone
//	)
//
//	type Value struct {
//		tag     ValueTag
//		text    string
//		integer int
//	}
//
//	func NewValueString(v string) Value
//	func NewValueInteger(v int) Value
//	func NewValueNone() Value
//
//	func (u *Value) Tag() ValueTag
//	func (u *Value) Text() string
//	func (u *Value) TextPtr() *string
//	func (u *Value) SetString(v string)
//	func (u *Value) Clone() Value
//	func (u *Value) Equal(o *Value) bool
//	func (u *Value) Destroy()
//	...
//
// After declaring unions, run the tagunion command. It will generate
// tagunion_gen.go for your package:
//
//	go run github.com/sublee/tagunion/cmd/tagunion
//
// # Accessors
//
// The "tagunion" struct tag names the accessor of an alternative. Without it,
// the field name in PascalCase is used. So INTEGER above is read by Integer().
// Accessors check the current tag. Reading an inactive alternative panics
// with [github.com/sublee/tagunion/pkg/tagcheck.MismatchError], unless the
// program is built with the "tagunion_fast" build tag. In that case the check
// is compiled out and reading an inactive alternative is undefined.
//
// # Capabilities
//
// Lifecycle operations are generated only when every payload supports them:
//
//   - Clone and CopyFrom need copyable payloads. A payload containing a lock
//     by value is never copyable, even with a Clone method. Slices and maps
//     are copied by slices.Clone and maps.Clone. Any other payload holding a
//     slice or a map needs a Clone method.
//   - Take and MoveFrom need movable payloads. Payloads containing a lock are
//     not movable.
//   - Equal needs comparable payloads or payloads with an Equal method.
//     Payloads holding interfaces are never compared by ==, since it panics
//     on incomparable dynamic values.
//
// Pointer and interface payloads are references the union does not own. They
// are copied as is, and their Destroy, Close, Clone and Assign methods are
// never called.
//
// When a payload type has a Destroy or Close method, the union calls it
// whenever the payload is replaced or destroyed. If such a method, a Clone
// method, or an Assign method returns an error, the corresponding union
// operations return an error as well.
//
// A payload may be another union. Its capabilities are inherited.
//
// # Unset
//
// The zero value of a union is unset. Its tag is the Unset constant, which is
// always the zero tag. Unset unions are equal to each other and have no
// payload.
package tagunion

// Union declares a tagged union. S must be a struct type whose fields are the
// alternatives of the union. Use it as the underlying type of a type
// definition in a file with the "//go:build tagunion" constraint:
//
//	type Shape tagunion.Union[struct {
//		Circle Circle
//		Rect   Rect
//		Empty  tagunion.Void
//	}]
//
// Generic unions are not supported.
type Union[S any] struct{ _ schema[S] }

// schema carries the alternatives of a union in its type argument. It occupies
// no memory.
type schema[S any] [0]S

// Void is the payload type of an alternative without payload.
type Void struct{}

// option configures code generation for a union. This is unexported so there
// is no way to create an option other than option directives.
type option interface{ tagunionOption() }

// Options configures code generation for the union type U. U must be a union
// declared in the same package. Assign the result to the blank identifier:
//
//	var _ = tagunion.Options[Shape](
//		tagunion.TagPrefix("Kind"),
//		tagunion.NoOverlay(),
//	)
//
// At most one Options directive is allowed for each union.
func Options[U any](opts ...option) struct{} {
	panic("tagunion: not generated")
}

// TagType names the generated tag type. The default is the union name
// followed by "Tag", for example "ShapeTag".
func TagType(name string) option {
	panic("tagunion: not generated")
}

// TagPrefix sets the prefix of the generated tag constants. The default is the
// union name, for example "ShapeCircle".
func TagPrefix(prefix string) option {
	panic("tagunion: not generated")
}

// TrimCommonTagPrefix trims the longest common word prefix of all alternative
// names before they are used in generated identifiers. For example,
// KIND_CIRCLE and KIND_RECT become Circle and Rect.
func TrimCommonTagPrefix() option {
	panic("tagunion: not generated")
}

// NoOverlay disables the overlay storage layout. By default, when every
// payload is free of pointers, all payloads share the same memory. With this
// option each payload has its own field instead.
func NoOverlay() option {
	panic("tagunion: not generated")
}

// NoPtrAccessors disables generating pointer accessors such as TextPtr.
// Payloads containing a lock keep their pointer accessors because they cannot
// be read by value.
func NoPtrAccessors() option {
	panic("tagunion: not generated")
}
