package schema

import (
	"go/types"
	"strings"
)

// ImportPath is the import path of the directive package.
const ImportPath = "github.com/sublee/tagunion"

// IsTagunionImport reports whether the import path refers the directive
// package, including vendored copies.
func IsTagunionImport(path string) bool {
	const vendorPart = "vendor/"
	if i := strings.LastIndex(path, vendorPart); i != -1 && (i == 0 || path[i-1] == '/') {
		path = path[i+len(vendorPart):]
	}
	return path == ImportPath
}

// isDirectiveType reports whether the named type is declared in the directive
// package with the name.
func isDirectiveType(t types.Type, name string) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Origin().Obj()
	return obj.Pkg() != nil && IsTagunionImport(obj.Pkg().Path()) && obj.Name() == name
}

// IsUnionDirective reports whether the type is an instance of tagunion.Union
// itself rather than a union declared by it.
func IsUnionDirective(t types.Type) bool {
	return isDirectiveType(t, "Union")
}

// IsVoid reports whether the type is tagunion.Void.
func IsVoid(t types.Type) bool {
	return isDirectiveType(t, "Void")
}

// StructOf recognizes a union declared as a type definition of
// tagunion.Union[S]. It returns the union type and the type argument S.
//
// Union[S] is struct{ _ schema[S] }, so the type argument survives in the
// underlying type of the definition even when the union is declared in another
// package.
func StructOf(t types.Type) (*types.Named, types.Type, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || isDirectiveType(named, "Union") {
		return nil, nil, false
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok || st.NumFields() != 1 {
		return nil, nil, false
	}

	marker := st.Field(0).Type()
	if !isDirectiveType(marker, "schema") {
		return nil, nil, false
	}

	args := marker.(*types.Named).TypeArgs()
	if args.Len() != 1 {
		return nil, nil, false
	}
	return named, args.At(0), true
}

// IsUnion reports whether the type is a union declared by tagunion.Union.
func IsUnion(t types.Type) bool {
	_, _, ok := StructOf(t)
	return ok
}

// PayloadTypes returns the payload types of the union type in declaration
// order. Void alternatives are skipped. It returns nil if the type is not a
// union.
func PayloadTypes(t types.Type) []types.Type {
	_, s, ok := StructOf(t)
	if !ok {
		return nil
	}
	st, ok := s.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var payloads []types.Type
	for field := range st.Fields() {
		if !IsVoid(field.Type()) {
			payloads = append(payloads, field.Type())
		}
	}
	return payloads
}
