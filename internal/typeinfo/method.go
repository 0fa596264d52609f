package typeinfo

import (
	"go/types"
)

// Method is a method callable on an addressable value of a type.
type Method struct {
	Func *types.Func
	Sig  *types.Signature
}

func (m Method) Name() string { return m.Func.Name() }

// HasErr reports whether the last result is error.
func (m Method) HasErr() bool {
	n := m.Sig.Results().Len()
	return n != 0 && TypeOf(m.Sig.Results().At(n-1).Type()).IsError()
}

// Is reports whether the method has exactly the given parameter and result
// types. Variadic methods never match.
func (m Method) Is(params, results []types.Type) bool {
	if m.Sig.Variadic() {
		return false
	}
	return tupleIs(m.Sig.Params(), params) && tupleIs(m.Sig.Results(), results)
}

func tupleIs(tuple *types.Tuple, want []types.Type) bool {
	if tuple.Len() != len(want) {
		return false
	}
	for i, t := range want {
		if !types.Identical(tuple.At(i).Type(), t) {
			return false
		}
	}
	return true
}

// Method finds an exported method by name. Methods with pointer receivers are
// included because payloads are always stored addressable.
func (t Type) Method(name string) (Method, bool) {
	recv := t.T
	if !t.IsPointer() && !t.IsInterface() {
		recv = types.NewPointer(t.T)
	}

	sel := types.NewMethodSet(recv).Lookup(nil, name)
	if sel == nil {
		return Method{}, false
	}

	fn, ok := sel.Obj().(*types.Func)
	if !ok {
		return Method{}, false
	}
	sig, ok := sel.Type().(*types.Signature)
	if !ok {
		return Method{}, false
	}
	return Method{Func: fn, Sig: sig}, true
}

// ErrorType returns the predeclared error type.
func ErrorType() types.Type { return errorType }

// BoolType returns the predeclared bool type.
func BoolType() types.Type { return types.Typ[types.Bool] }
