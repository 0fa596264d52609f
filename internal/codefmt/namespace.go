package codefmt

import (
	"fmt"
	"go/token"
	"go/types"
	"iter"
	"maps"
)

// NS is a set of names in use. Generated declarations take their names from
// it so that they never shadow or redeclare user code.
type NS map[string]struct{}

// NewNS creates a namespace reserving every name declared in the scope.
func NewNS(scope *types.Scope) NS {
	ns := make(NS)
	if scope == nil {
		return ns
	}
	for _, name := range scope.Names() {
		ns.Reserve(name)
	}
	return ns
}

// Has reports whether the name is in use.
func (ns NS) Has(name string) bool {
	_, ok := ns[name]
	return ok
}

// Reserve marks the name as used. It returns false if the name is already
// used.
func (ns NS) Reserve(name string) bool {
	if ns.Has(name) {
		return false
	}
	ns[name] = struct{}{}
	return true
}

// Release marks the name as unused.
func (ns NS) Release(name string) {
	delete(ns, name)
}

// Clone copies the namespace. Reservations in the copy do not affect the
// original.
func (ns NS) Clone() NS {
	return maps.Clone(ns)
}

// Name reserves and returns a unique name derived from the given one. A
// numbering suffix is added on conflict. Keywords are returned as is.
//
// Panics if the name is empty.
func (ns NS) Name(name string) string {
	if name == "" {
		panic("empty name")
	}
	if ns == nil || token.IsKeyword(name) {
		return name
	}
	for name := range DisambiguateName(name) {
		if ns.Reserve(name) {
			return name
		}
	}
	panic("unreachable")
}

// DisambiguateName yields the name and then its numbered alternatives: name,
// name2, name3, and so on.
func DisambiguateName(name string) iter.Seq[string] {
	if name == "" {
		panic("empty name")
	}

	return func(yield func(string) bool) {
		if !yield(name) {
			return
		}

		// "answer42_2" reads better than "answer422".
		sep := ""
		if last := name[len(name)-1]; '0' <= last && last <= '9' {
			sep = "_"
		}

		for i := 2; ; i++ {
			if !yield(fmt.Sprintf("%s%s%d", name, sep, i)) {
				return
			}
		}
	}
}
