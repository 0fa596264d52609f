// Package derive decides which lifecycle operations a union supports. Each
// payload type has [Traits], and the traits of all payloads of a union are
// folded into a [Bundle]. An operation is generated only when every payload
// supports it.
package derive

import (
	"errors"
	"fmt"
	"go/types"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/samber/lo"

	"github.com/sublee/tagunion/internal/tagunion/schema"
)

// Bundle is the capability set of a union.
type Bundle struct {
	Copy            bool
	CopyNoErr       bool
	Move            bool
	MoveNoErr       bool
	CopyAssign      bool
	CopyAssignNoErr bool
	MoveAssign      bool
	MoveAssignNoErr bool

	// NeedsDestroy reports whether any payload needs cleanup. Otherwise
	// Destroy does nothing.
	NeedsDestroy bool
	DestroyNoErr bool

	Equal bool

	// PointerFree reports whether no payload holds Go pointers.
	PointerFree bool
}

// Fold combines the traits of payloads into a bundle. Most capabilities are
// conjunctions. NeedsDestroy is a disjunction. A union without payloads has
// every capability.
func Fold(traits []Traits) Bundle {
	return Bundle{
		Copy:            lo.EveryBy(traits, Traits.Copy),
		CopyNoErr:       lo.EveryBy(traits, Traits.CopyNoErr),
		Move:            lo.EveryBy(traits, Traits.Move),
		MoveNoErr:       true,
		CopyAssign:      lo.EveryBy(traits, Traits.CopyAssign),
		CopyAssignNoErr: lo.EveryBy(traits, Traits.CopyAssignNoErr),
		MoveAssign:      lo.EveryBy(traits, Traits.MoveAssign),
		MoveAssignNoErr: lo.EveryBy(traits, Traits.MoveAssignNoErr),
		NeedsDestroy:    lo.SomeBy(traits, func(t Traits) bool { return !t.Trivial() }),
		DestroyNoErr:    lo.EveryBy(traits, Traits.DestroyNoErr),
		Equal:           lo.EveryBy(traits, Traits.Comparison),
		PointerFree:     lo.EveryBy(traits, func(t Traits) bool { return t.PointerFree }),
	}
}

// Capabilities lists the names of the generated lifecycle operations.
func (b Bundle) Capabilities() []string {
	var caps []string
	add := func(ok bool, name string, noErr bool) {
		if !ok {
			return
		}
		if !noErr {
			name += " (error)"
		}
		caps = append(caps, name)
	}
	add(b.Copy, "Clone", b.CopyNoErr)
	add(b.Copy && b.CopyAssign, "CopyFrom", b.CopyAssignNoErr)
	add(b.Move, "Take", b.MoveNoErr)
	add(b.MoveAssign, "MoveFrom", b.MoveAssignNoErr)
	add(b.Equal, "Equal", true)
	if b.NeedsDestroy {
		add(true, "Destroy", b.DestroyNoErr)
	} else {
		caps = append(caps, "Destroy (trivial)")
	}
	return caps
}

func (b Bundle) String() string {
	return strings.Join(b.Capabilities(), ", ")
}

// Deriver derives traits of payloads and bundles of unions. It caches bundles
// of nested unions, so a single Deriver should be shared by all unions of a
// program.
type Deriver struct {
	bundles map[*types.Named]Bundle

	// path is the chain of unions being derived. It detects unions which
	// contain themselves.
	path *linkedhashset.Set

	errs []error
}

// New creates a Deriver.
func New() *Deriver {
	return &Deriver{
		bundles: make(map[*types.Named]Bundle),
		path:    linkedhashset.New(),
	}
}

// Derive derives the traits of each payload alternative of the schema and the
// bundle of the union. Traits are keyed by alternative name.
func (d *Deriver) Derive(s *schema.Schema) (Bundle, map[string]Traits, error) {
	d.errs = nil

	byName := make(map[string]Traits)
	var traits []Traits

	d.path.Add(s.Named.Origin())
	for _, alt := range s.Payloads() {
		tr := d.Traits(alt.Payload)
		byName[alt.Name] = tr
		traits = append(traits, tr)
	}
	d.path.Remove(s.Named.Origin())

	b := Fold(traits)
	d.bundles[s.Named.Origin()] = b
	return b, byName, errors.Join(d.errs...)
}

// Traits derives the traits of a payload type.
func (d *Deriver) Traits(t types.Type) Traits {
	if schema.IsUnion(t) {
		return unionTraits(t, d.unionBundle(t))
	}
	return d.traitsOf(t)
}

// unionBundle derives the bundle of a union referenced by a payload.
func (d *Deriver) unionBundle(t types.Type) Bundle {
	named, _, _ := schema.StructOf(t)
	named = named.Origin()

	if b, ok := d.bundles[named]; ok {
		return b
	}

	if d.path.Contains(named) {
		var names []string
		for _, v := range d.path.Values() {
			names = append(names, v.(*types.Named).Obj().Name())
		}
		names = append(names, named.Obj().Name())
		d.errs = append(d.errs, fmt.Errorf("union %s contains itself: %s", named.Obj().Name(), strings.Join(names, " -> ")))

		// A cyclic union supports nothing.
		return Bundle{}
	}

	d.path.Add(named)
	traits := lo.Map(schema.PayloadTypes(named), func(t types.Type, _ int) Traits {
		return d.Traits(t)
	})
	d.path.Remove(named)

	b := Fold(traits)
	d.bundles[named] = b
	return b
}
