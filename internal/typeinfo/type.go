// Package typeinfo inspects the structure and methods of payload types.
package typeinfo

import (
	"fmt"
	"go/token"
	"go/types"
)

// Type describes a type by its structure. At most one of Basic, Array, Slice,
// Map, Chan, Struct, Interface, Pointer, and Signature is set. Named is set
// in addition for defined types.
type Type struct {
	T types.Type

	Basic     *types.Basic
	Array     *types.Array
	Slice     *types.Slice
	Map       *types.Map
	Chan      *types.Chan
	Struct    *types.Struct
	Interface *types.Interface
	Pointer   *types.Pointer
	Signature *types.Signature
	Named     *types.Named

	Elem *Type
	Key  *Type
	Len  int64
}

func (t Type) Type() types.Type { return t.T }
func (t Type) String() string   { return t.T.String() }

func (t Type) IsBasic() bool     { return t.Basic != nil }
func (t Type) IsArray() bool     { return t.Array != nil }
func (t Type) IsSlice() bool     { return t.Slice != nil }
func (t Type) IsMap() bool       { return t.Map != nil }
func (t Type) IsChan() bool      { return t.Chan != nil }
func (t Type) IsStruct() bool    { return t.Struct != nil }
func (t Type) IsInterface() bool { return t.Interface != nil }
func (t Type) IsPointer() bool   { return t.Pointer != nil }
func (t Type) IsFunc() bool      { return t.Signature != nil }
func (t Type) IsNamed() bool     { return t.Named != nil }

func (t Type) IsError() bool { return types.Identical(t.T, errorType) }
func (t Type) IsBool() bool  { return t.IsBasic() && t.Basic.Info()&types.IsBoolean != 0 }

// IsString reports whether the type is a string kind, including untyped
// string constants.
func (t Type) IsString() bool { return t.IsBasic() && t.Basic.Info()&types.IsString != 0 }

// IsUnsafePointer reports whether the type is unsafe.Pointer or defined on it.
func (t Type) IsUnsafePointer() bool { return t.IsBasic() && t.Basic.Kind() == types.UnsafePointer }

func (t Type) Identical(u Type) bool { return types.Identical(t.T, u.T) }

var errorType = types.Universe.Lookup("error").Type()

// TypeOf inspects the type. Aliases are resolved.
func TypeOf(t types.Type) Type {
	switch tt := types.Unalias(t).(type) {
	case *types.Basic:
		return Type{T: t, Basic: tt}
	case *types.Array:
		elem := TypeOf(tt.Elem())
		return Type{T: t, Array: tt, Elem: &elem, Len: tt.Len()}
	case *types.Slice:
		elem := TypeOf(tt.Elem())
		return Type{T: t, Slice: tt, Elem: &elem}
	case *types.Map:
		key := TypeOf(tt.Key())
		elem := TypeOf(tt.Elem())
		return Type{T: t, Map: tt, Key: &key, Elem: &elem}
	case *types.Chan:
		elem := TypeOf(tt.Elem())
		return Type{T: t, Chan: tt, Elem: &elem}
	case *types.Struct:
		return Type{T: t, Struct: tt}
	case *types.Interface:
		return Type{T: t, Interface: tt}
	case *types.Pointer:
		elem := TypeOf(tt.Elem())
		return Type{T: t, Pointer: tt, Elem: &elem}
	case *types.Signature:
		return Type{T: t, Signature: tt}
	case *types.Named:
		info := TypeOf(tt.Underlying())
		info.T = t
		info.Named = tt
		return info
	case *types.TypeParam:
		return Type{T: t}
	}
	panic(fmt.Errorf("unknown type: %T", t))
}

// Pkg returns the package where the type is defined. It returns nil if the
// type is not a defined type.
func (t Type) Pkg() *types.Package {
	if !t.IsNamed() {
		return nil
	}
	return t.Named.Obj().Pkg()
}

// Pos returns the position where the type is defined. It returns
// token.NoPos if the type is not a defined type.
func (t Type) Pos() token.Pos {
	if !t.IsNamed() {
		return token.NoPos
	}
	return t.Named.Obj().Pos()
}

// Ref returns the pointer type to the type.
func (t Type) Ref() Type {
	return TypeOf(types.NewPointer(t.T))
}

// Deref returns the element type if the type is a pointer. Otherwise, it
// returns the type itself.
func (t Type) Deref() Type {
	if t.IsPointer() {
		return *t.Elem
	}
	return t
}

// Fields returns the fields of a struct type. It returns nil for other
// types.
func (t Type) Fields() []*types.Var {
	if !t.IsStruct() {
		return nil
	}
	fields := make([]*types.Var, 0, t.Struct.NumFields())
	for field := range t.Struct.Fields() {
		fields = append(fields, field)
	}
	return fields
}
