// Package gen builds unions from their declarations and writes the generated
// code of them.
package gen

import (
	"errors"
	"fmt"
	"go/token"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/derive"
	"github.com/sublee/tagunion/internal/tagunion/parse"
	"github.com/sublee/tagunion/internal/tagunion/schema"
	"github.com/sublee/tagunion/internal/tagunion/storage"
	"github.com/sublee/tagunion/internal/words"
)

// Union is a union ready to be written. Every name of the generated API is
// resolved by [Build].
type Union struct {
	*parse.Union

	Bundle derive.Bundle
	Traits map[string]derive.Traits
	Layout *storage.Layout
	kind   storage.Kind

	// TagType is the name of the tag type, and Unset is the name of its zero
	// constant.
	TagType string
	Unset   string

	// Generated identifiers by alternative name. PtrAccessors has no entry for
	// alternatives without pointer accessor.
	Consts       map[string]string
	Ctors        map[string]string
	Setters      map[string]string
	PtrAccessors map[string]string

	pkg *packages.Package
}

// Pkg implements [codefmt.Pkger].
func (u *Union) Pkg() *packages.Package { return u.pkg }

// Build derives the capabilities of the union and resolves the names of the
// generated API. Package-level names are reserved in ns, which is shared by
// every union of the package.
func Build(pkg *packages.Package, pu *parse.Union, d *derive.Deriver, ns codefmt.NS) (*Union, error) {
	u := &Union{
		Union:        pu,
		Consts:       make(map[string]string),
		Ctors:        make(map[string]string),
		Setters:      make(map[string]string),
		PtrAccessors: make(map[string]string),
		pkg:          pkg,
	}

	b, traits, err := d.Derive(pu.Schema)
	if err != nil {
		return nil, codefmt.Errorf(u, pu, "%s", err.Error())
	}
	u.Bundle = b
	u.Traits = traits
	u.kind = storage.Choose(pu.Schema, b, pu.Options.NoOverlay)

	errs := u.resolveDecls(ns)

	members, err := u.resolveMethods()
	errs = errors.Join(errs, err)
	if errs != nil {
		return nil, errs
	}

	u.Layout = storage.New(pu.Schema, u.kind, members)
	return u, nil
}

// resolveDecls names the package-level declarations: the tag type, the tag
// constants, and the constructors.
func (u *Union) resolveDecls(ns codefmt.NS) error {
	var errs error
	declare := func(poser codefmt.Poser, name string) {
		if !ns.Reserve(name) {
			err := codefmt.Errorf(u, poser, "cannot generate %s; already declared", name)
			errs = errors.Join(errs, err)
		}
	}

	name := u.Schema.Name()
	opts := u.Options

	u.TagType = name + "Tag"
	if opts.TagType != "" {
		u.TagType = opts.TagType
	}
	declare(u, u.TagType)

	prefix := name
	if opts.HasTagPrefix {
		prefix = opts.TagPrefix
	}
	u.Unset = prefix + "Unset"
	declare(u, u.Unset)

	ctorPrefix := "New" + name
	if !token.IsExported(name) {
		ctorPrefix = "new" + words.Pascal(name)
	}

	for _, alt := range u.Schema.Alternatives() {
		u.Consts[alt.Name] = prefix + alt.Name
		declare(alt, u.Consts[alt.Name])

		u.Ctors[alt.Name] = ctorPrefix + alt.Name
		declare(alt, u.Ctors[alt.Name])
	}
	return errs
}

// resolveMethods names the methods of the union. It returns the namespace of
// the members of the union struct for the storage fields.
func (u *Union) resolveMethods() (codefmt.NS, error) {
	members := codefmt.NewNS(nil)
	owners := make(map[string]string)

	// Methods declared by the user in files without the tagunion constraint
	for i := range u.Schema.Named.NumMethods() {
		m := u.Schema.Named.Method(i)
		members.Reserve(m.Name())
		owners[m.Name()] = fmt.Sprintf("method %s declared at %s", m.Name(), codefmt.FormatPos(u, m.Pos()))
	}

	var errs error
	method := func(poser codefmt.Poser, name, owner string) {
		if members.Reserve(name) {
			owners[name] = owner
			return
		}
		err := codefmt.Errorf(u, poser, "%s conflicts with %s", owner, owners[name])
		errs = errors.Join(errs, err)
	}

	method(u, "Tag", "method Tag")
	method(u, "Destroy", "method Destroy")
	if u.hasDestroySwitch() {
		method(u, "destroyPayload", "method destroyPayload")
	}
	if u.Bundle.Copy {
		method(u, "Clone", "method Clone")
	}
	if u.hasCopyFrom() {
		method(u, "CopyFrom", "method CopyFrom")
	}
	if u.Bundle.Move {
		method(u, "Take", "method Take")
	}
	if u.Bundle.MoveAssign {
		method(u, "MoveFrom", "method MoveFrom")
	}
	if u.Bundle.Equal {
		method(u, "Equal", "method Equal")
	}

	for _, alt := range u.Schema.Alternatives() {
		u.Setters[alt.Name] = "Set" + alt.Name
		method(alt, u.Setters[alt.Name], fmt.Sprintf("setter of %s", alt.Field.Name()))

		if alt.IsVoid() {
			continue
		}

		tr := u.Traits[alt.Name]
		if !tr.Lock {
			method(alt, alt.Accessor, fmt.Sprintf("accessor of %s", alt.Field.Name()))
		}
		if tr.Lock || !u.Options.NoPtrAccessors {
			u.PtrAccessors[alt.Name] = alt.Accessor + "Ptr"
			method(alt, u.PtrAccessors[alt.Name], fmt.Sprintf("pointer accessor of %s", alt.Field.Name()))
		}
	}

	return members, errs
}

// hasCopyFrom reports whether CopyFrom is generated. It copies the payload of
// the source and then sets it, so it needs both Copy and CopyAssign.
func (u *Union) hasCopyFrom() bool {
	return u.Bundle.Copy && u.Bundle.CopyAssign
}

// hasDestroyCase reports whether the alternative has work to do when its
// payload goes away. Trivial payloads have none, except that the fields layout
// clears inactive payloads holding pointers so that the garbage collector can
// reclaim what they refer to.
func (u *Union) hasDestroyCase(alt *schema.Alternative) bool {
	if alt.IsVoid() {
		return false
	}
	tr := u.Traits[alt.Name]
	return !tr.Trivial() || (u.kind.NeedsRelease() && !tr.PointerFree)
}

// hasDestroySwitch reports whether the destroyPayload method is generated.
func (u *Union) hasDestroySwitch() bool {
	for _, alt := range u.Schema.Payloads() {
		if u.hasDestroyCase(alt) {
			return true
		}
	}
	return false
}

// destroyHasErr reports whether destroying a payload may fail.
func (u *Union) destroyHasErr() bool { return !u.Bundle.DestroyNoErr }

// setHasErr reports whether the setter of the alternative returns an error.
func (u *Union) setHasErr(alt *schema.Alternative) bool {
	if u.destroyHasErr() {
		return true
	}
	tr := u.Traits[alt.Name]
	return tr.Assign != nil && tr.Assign.HasErr
}

// Describe returns the layout and the capabilities of the union for humans.
func (u *Union) Describe() (layout, capabilities string) {
	return u.Layout.Kind.String(), u.Bundle.String()
}
