package derive

import (
	"go/token"
	"go/types"

	"github.com/sublee/tagunion/internal/tagunion/schema"
	"github.com/sublee/tagunion/internal/typeinfo"
)

// Call is a method a payload type provides for a lifecycle operation.
type Call struct {
	Name string

	// HasErr reports whether the method returns an error.
	HasErr bool

	// Ptr reports whether the argument is passed by pointer. It is used only
	// for Equal methods.
	Ptr bool
}

// Container is a builtin container kind which is cloned by the standard
// library instead of assignment.
type Container int

const (
	NoContainer Container = iota
	SliceContainer
	MapContainer
)

// Traits are the capabilities of a payload type.
type Traits struct {
	Type types.Type

	// Union reports whether the payload is another union.
	Union bool

	// Lock reports whether the payload contains a lock by value, such as
	// sync.Mutex. Such values must not be copied or moved.
	Lock bool

	// Clone makes a deep copy of the payload. It is nil when plain assignment
	// copies the payload.
	Clone *Call

	// Container is set when the payload is a slice or a map without Clone
	// method, and its elements hold no slices or maps. Its copy is a new
	// container with the same elements.
	Container Container

	// Shared reports whether plain assignment of the payload shares a slice or
	// a map with the source. Such a payload is copied only by its Clone method
	// or as a Container.
	Shared bool

	// Assign assigns a new value onto an existing payload in place.
	Assign *Call

	// Equal compares two payloads. It is nil when the payload is compared by
	// == or cannot be compared at all.
	Equal *Call

	// Comparable reports whether the payload can be compared by ==.
	Comparable bool

	// Cleanup is the Destroy or Close method of the payload.
	Cleanup *Call

	// PointerFree reports whether the payload holds no Go pointers. Such
	// payloads may share untyped memory.
	PointerFree bool
}

// Copy reports whether the payload can be copied. A payload containing a lock
// is never copied, even by its Clone method, because the copy would be
// returned by value. A copy never shares slices or maps with the source.
func (t Traits) Copy() bool {
	if t.Lock {
		return false
	}
	return !t.Shared || t.Clone != nil || t.Container != NoContainer
}

func (t Traits) CopyNoErr() bool { return t.Clone == nil || !t.Clone.HasErr }

// Move reports whether the payload can be moved to another union.
func (t Traits) Move() bool { return !t.Lock }

// CopyAssign reports whether a copy can be assigned onto another union.
// When tags differ, the source payload is copied, so it requires [Traits.Copy].
func (t Traits) CopyAssign() bool { return t.Copy() }

func (t Traits) CopyAssignNoErr() bool {
	if t.Assign != nil && t.Assign.HasErr {
		return false
	}
	return t.CopyNoErr() && t.DestroyNoErr()
}

func (t Traits) MoveAssign() bool { return t.Move() }

// MoveAssignNoErr reports whether moving onto another union never fails. The
// moved payload is assigned in place when tags match, so Assign counts.
func (t Traits) MoveAssignNoErr() bool {
	if t.Assign != nil && t.Assign.HasErr {
		return false
	}
	return t.DestroyNoErr()
}

// Trivial reports whether the payload needs no cleanup.
func (t Traits) Trivial() bool { return t.Cleanup == nil }

func (t Traits) DestroyNoErr() bool { return t.Cleanup == nil || !t.Cleanup.HasErr }

// Comparison reports whether two payloads can be compared.
func (t Traits) Comparison() bool { return t.Equal != nil || t.Comparable }

// AssignNoErr reports whether assigning a new value onto an existing payload
// never fails, regardless of the other alternatives.
func (t Traits) AssignNoErr() bool {
	if t.Assign != nil {
		return !t.Assign.HasErr
	}
	return t.DestroyNoErr()
}

// traitsOf computes the traits of a payload type which is not a union.
func (d *Deriver) traitsOf(t types.Type) Traits {
	ti := typeinfo.TypeOf(t)
	tr := Traits{
		Type:        t,
		Lock:        d.hasLock(t, make(map[types.Type]bool)),
		PointerFree: d.pointerFree(t),
	}

	// Pointers and interfaces refer to values the union does not own. They
	// are copied and dropped as references, and their methods are not the
	// payload's lifecycle.
	if ti.IsPointer() || ti.IsInterface() {
		tr.Comparable = ti.IsPointer()
		return tr
	}

	errType := typeinfo.ErrorType()
	boolType := typeinfo.BoolType()

	if m, ok := ti.Method("Clone"); ok {
		switch {
		case m.Is(nil, []types.Type{t}):
			tr.Clone = &Call{Name: m.Name()}
		case m.Is(nil, []types.Type{t, errType}):
			tr.Clone = &Call{Name: m.Name(), HasErr: true}
		}
	}
	tr.Shared = d.shared(t, make(map[types.Type]bool))
	if tr.Clone == nil {
		switch {
		case ti.IsSlice() && !d.shared(ti.Elem.T, make(map[types.Type]bool)):
			tr.Container = SliceContainer
		case ti.IsMap() && !d.shared(ti.Key.T, make(map[types.Type]bool)) && !d.shared(ti.Elem.T, make(map[types.Type]bool)):
			tr.Container = MapContainer
		}
	}

	if m, ok := ti.Method("Assign"); ok {
		switch {
		case m.Is([]types.Type{t}, nil):
			tr.Assign = &Call{Name: m.Name()}
		case m.Is([]types.Type{t}, []types.Type{errType}):
			tr.Assign = &Call{Name: m.Name(), HasErr: true}
		}
	}

	if m, ok := ti.Method("Equal"); ok {
		switch {
		case m.Is([]types.Type{t}, []types.Type{boolType}):
			tr.Equal = &Call{Name: m.Name()}
		case m.Is([]types.Type{types.NewPointer(t)}, []types.Type{boolType}):
			tr.Equal = &Call{Name: m.Name(), Ptr: true}
		}
	}
	tr.Comparable = types.Comparable(t) && !tr.Lock &&
		!d.containsUnion(t, make(map[types.Type]bool)) &&
		!d.containsInterface(t, make(map[types.Type]bool))

	for _, name := range []string{"Destroy", "Close"} {
		m, ok := ti.Method(name)
		if !ok {
			continue
		}
		switch {
		case m.Is(nil, nil):
			tr.Cleanup = &Call{Name: m.Name()}
		case m.Is(nil, []types.Type{errType}):
			tr.Cleanup = &Call{Name: m.Name(), HasErr: true}
		}
		if tr.Cleanup != nil {
			break
		}
	}

	return tr
}

// unionTraits computes the traits of a nested union from its bundle. The
// methods are the ones generated for the nested union.
func unionTraits(t types.Type, b Bundle) Traits {
	tr := Traits{
		Type:        t,
		Union:       true,
		Lock:        !b.Move,
		Shared:      !b.Copy,
		PointerFree: b.PointerFree,
	}
	if b.Copy {
		tr.Clone = &Call{Name: "Clone", HasErr: !b.CopyNoErr}
	}
	if b.Equal {
		tr.Equal = &Call{Name: "Equal", Ptr: true}
	}
	if b.NeedsDestroy {
		tr.Cleanup = &Call{Name: "Destroy", HasErr: !b.DestroyNoErr}
	}
	return tr
}

var lockerType = types.NewInterfaceType([]*types.Func{
	types.NewFunc(token.NoPos, nil, "Lock", types.NewSignatureType(nil, nil, nil, nil, nil, false)),
	types.NewFunc(token.NoPos, nil, "Unlock", types.NewSignatureType(nil, nil, nil, nil, nil, false)),
}, nil).Complete()

// hasLock reports whether the type contains a lock by value, the same way
// "go vet" detects copied locks: a pointer to the type is a sync.Locker but
// the type itself is not. Struct fields and array elements are followed, but
// pointers are not.
func (d *Deriver) hasLock(t types.Type, seen map[types.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	if schema.IsUnion(t) {
		return !d.unionBundle(t).Move
	}

	for {
		arr, ok := t.Underlying().(*types.Array)
		if !ok {
			break
		}
		t = arr.Elem()
	}

	if types.Implements(types.NewPointer(t), lockerType) && !types.Implements(t, lockerType) {
		return true
	}

	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for field := range st.Fields() {
		if d.hasLock(field.Type(), seen) {
			return true
		}
	}
	return false
}

// pointerFree reports whether the type holds no Go pointers, including
// strings and unsafe pointers.
func (d *Deriver) pointerFree(t types.Type) bool {
	if schema.IsUnion(t) {
		return d.unionBundle(t).PointerFree
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		return u.Info()&types.IsString == 0 && u.Kind() != types.UnsafePointer
	case *types.Array:
		return u.Len() == 0 || d.pointerFree(u.Elem())
	case *types.Struct:
		for field := range u.Fields() {
			if !d.pointerFree(field.Type()) {
				return false
			}
		}
		return true
	}
	return false
}

// containsUnion reports whether a union is embedded by value. Such types are
// not compared by == because unions may keep stale bytes in their storage.
func (d *Deriver) containsUnion(t types.Type, seen map[types.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	if schema.IsUnion(t) {
		return true
	}

	switch u := t.Underlying().(type) {
	case *types.Array:
		return d.containsUnion(u.Elem(), seen)
	case *types.Struct:
		for field := range u.Fields() {
			if d.containsUnion(field.Type(), seen) {
				return true
			}
		}
	}
	return false
}

// shared reports whether plain assignment of the type shares a slice or a map
// with the source. Struct fields and array elements are followed, as are the
// payloads of embedded unions. Pointers are not.
func (d *Deriver) shared(t types.Type, seen map[types.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	if schema.IsUnion(t) {
		for _, payload := range schema.PayloadTypes(t) {
			if d.shared(payload, seen) {
				return true
			}
		}
		return false
	}

	switch u := t.Underlying().(type) {
	case *types.Slice, *types.Map:
		return true
	case *types.Array:
		return d.shared(u.Elem(), seen)
	case *types.Struct:
		for field := range u.Fields() {
			if d.shared(field.Type(), seen) {
				return true
			}
		}
	}
	return false
}

// containsInterface reports whether an interface is held by value. == on such
// types panics when the dynamic values are not comparable.
func (d *Deriver) containsInterface(t types.Type, seen map[types.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	switch u := t.Underlying().(type) {
	case *types.Interface:
		return true
	case *types.Array:
		return d.containsInterface(u.Elem(), seen)
	case *types.Struct:
		for field := range u.Fields() {
			if d.containsInterface(field.Type(), seen) {
				return true
			}
		}
	}
	return false
}
