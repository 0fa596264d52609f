package gen

import (
	"fmt"
	"math"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/derive"
	"github.com/sublee/tagunion/internal/tagunion/schema"
	"github.com/sublee/tagunion/internal/tagunion/storage"
)

const tagcheckPath = "github.com/sublee/tagunion/pkg/tagcheck"

// WriteCode writes the declarations of the union. The namespace of w must
// hold the package-level names, so that local names never shadow them.
func (u *Union) WriteCode(w *codefmt.Writer) {
	u.writeTagType(w)
	u.writeStruct(w)
	u.writeCtors(w)
	u.writeTag(w)
	u.writeAccessors(w)
	u.writeSetters(w)
	u.writeDestroy(w)

	if u.Bundle.Copy {
		u.writeClone(w)
	}
	if u.hasCopyFrom() {
		u.writeCopyFrom(w)
	}
	if u.Bundle.Move {
		u.writeTake(w)
	}
	if u.Bundle.MoveAssign {
		u.writeMoveFrom(w)
	}
	if u.Bundle.Equal {
		u.writeEqual(w)
	}
}

// local forks the writer with a namespace for a function body.
func local(w *codefmt.Writer) *codefmt.Writer {
	return w.WithNS(w.NS().Clone())
}

func errResult(hasErr bool) string {
	if hasErr {
		return " error"
	}
	return ""
}

// writeReturn writes a call and returns its error if the enclosing function
// returns an error.
func writeReturn(w *codefmt.Writer, call string, callErr, funcErr bool) {
	switch {
	case callErr:
		if !funcErr {
			panic("error of " + call + " dropped")
		}
		w.Printf("return %s\n", call)
	case funcErr:
		w.Printf("%s\nreturn nil\n", call)
	default:
		w.Printf("%s\nreturn\n", call)
	}
}

func (u *Union) writeTagType(w *codefmt.Writer) {
	name := u.Schema.Name()

	base := "uint8"
	if u.Schema.Len() > math.MaxUint8 {
		base = "uint16"
	}

	w.Printf("// %s identifies the active alternative of %s.\n", u.TagType, name)
	w.Printf("type %s %s\n\n", u.TagType, base)

	w.Printf("const (\n")
	w.Printf("%s %s = iota\n", u.Unset, u.TagType)
	for _, alt := range u.Schema.Alternatives() {
		w.Printf("%s\n", u.Consts[alt.Name])
	}
	w.Printf(")\n\n")

	w = local(w)
	t := w.Name("t")
	strconvName := w.Import("strconv", "")

	w.Printf("func (%s %s) String() string {\n", t, u.TagType)
	w.Printf("switch %s {\n", t)
	w.Printf("case %s:\nreturn %q\n", u.Unset, "Unset")
	for _, alt := range u.Schema.Alternatives() {
		w.Printf("case %s:\nreturn %q\n", u.Consts[alt.Name], alt.Field.Name())
	}
	w.Printf("}\n")
	w.Printf("return %q + %s.Itoa(int(%s)) + \")\"\n", u.TagType+"(", strconvName, t)
	w.Printf("}\n\n")
}

func (u *Union) writeStruct(w *codefmt.Writer) {
	if doc := u.Doc(); doc != nil {
		for _, c := range doc.List {
			w.Printf("%s\n", c.Text)
		}
	}
	w.Printf("type %s struct {\n", u.Schema.Name())
	u.Layout.Decl(w, u.TagType)
	w.Printf("}\n\n")
}

func (u *Union) writeCtors(w *codefmt.Writer) {
	name := u.Schema.Name()
	for _, alt := range u.Schema.Alternatives() {
		w := local(w)
		ctor := u.Ctors[alt.Name]
		tag := u.Consts[alt.Name]

		switch {
		case alt.IsVoid():
			w.Printf("// %s returns a %s holding %s.\n", ctor, name, alt.Field.Name())
			w.Printf("func %s() %s {\n", ctor, name)
			w.Printf("return %s{%s: %s}\n", name, u.Layout.Tag, tag)

		case u.Traits[alt.Name].Lock:
			w.Printf("// %s returns a %s holding %s with the zero payload.\n", ctor, name, alt.Field.Name())
			w.Printf("func %s() %s {\n", ctor, name)
			w.Printf("return %s{%s: %s}\n", name, u.Layout.Tag, tag)

		case u.Layout.Kind == storage.Overlay:
			v, r := w.Name("v"), w.Name("u")
			w.Printf("// %s returns a %s holding %s.\n", ctor, name, alt.Field.Name())
			w.Printf("func %s(%s %t) %s {\n", ctor, v, alt.Payload, name)
			w.Printf("var %s %s\n", r, name)
			w.Printf("%s.%s = %s\n", r, u.Layout.Tag, tag)
			w.Printf("%s = %s\n", u.Layout.Val(w, alt, r), v)
			w.Printf("return %s\n", r)

		default:
			v := w.Name("v")
			w.Printf("// %s returns a %s holding %s.\n", ctor, name, alt.Field.Name())
			w.Printf("func %s(%s %t) %s {\n", ctor, v, alt.Payload, name)
			w.Printf("return %s{%s: %s, %s: %s}\n", name, u.Layout.Tag, tag, u.Layout.Field(alt), v)
		}
		w.Printf("}\n\n")
	}
}

func (u *Union) writeTag(w *codefmt.Writer) {
	w = local(w)
	r := w.Name("u")
	w.Printf("// Tag returns the tag of the active alternative.\n")
	w.Printf("func (%s *%s) Tag() %s {\nreturn %s.%s\n}\n\n", r, u.Schema.Name(), u.TagType, r, u.Layout.Tag)
}

// writeCheck writes the runtime check of the active tag. It is compiled out
// in fast builds.
func (u *Union) writeCheck(w *codefmt.Writer, r string, alt *schema.Alternative) {
	tagcheck := w.Import(tagcheckPath, "")
	tag := u.Consts[alt.Name]
	w.Printf("if %s.Enabled && %s.%s != %s {\n", tagcheck, r, u.Layout.Tag, tag)
	w.Printf("%s.Fail(%q, %s, %s.%s)\n", tagcheck, u.Schema.Name(), tag, r, u.Layout.Tag)
	w.Printf("}\n")
}

func (u *Union) writeAccessors(w *codefmt.Writer) {
	name := u.Schema.Name()
	for _, alt := range u.Schema.Payloads() {
		if !u.Traits[alt.Name].Lock {
			w := local(w)
			r := w.Name("u")
			w.Printf("// %s returns the payload of %s. It panics if %s holds another alternative.\n", alt.Accessor, alt.Field.Name(), name)
			w.Printf("func (%s *%s) %s() %t {\n", r, name, alt.Accessor, alt.Payload)
			u.writeCheck(w, r, alt)
			w.Printf("return %s\n", u.Layout.Val(w, alt, r))
			w.Printf("}\n\n")
		}

		if ptr, ok := u.PtrAccessors[alt.Name]; ok {
			w := local(w)
			r := w.Name("u")
			w.Printf("// %s returns the pointer to the payload of %s.\n", ptr, alt.Field.Name())
			w.Printf("func (%s *%s) %s() *%t {\n", r, name, ptr, alt.Payload)
			u.writeCheck(w, r, alt)
			w.Printf("return %s\n", u.Layout.Ptr(w, alt, r))
			w.Printf("}\n\n")
		}
	}
}

func (u *Union) writeSetters(w *codefmt.Writer) {
	name := u.Schema.Name()
	for _, alt := range u.Schema.Alternatives() {
		w := local(w)
		r := w.Name("u")
		tr := u.Traits[alt.Name]
		tag := u.Consts[alt.Name]
		setter := u.Setters[alt.Name]
		hasErr := u.setHasErr(alt)

		store := !alt.IsVoid() && !tr.Lock
		v, params := "", ""
		switch {
		case store:
			v = w.Name("v")
			params = w.Sprintf("%s %t", v, alt.Payload)
			w.Printf("// %s makes the union hold %s with %s.\n", setter, alt.Field.Name(), v)
		case alt.IsVoid():
			w.Printf("// %s makes the union hold %s.\n", setter, alt.Field.Name())
		default:
			w.Printf("// %s makes the union hold %s with the zero payload.\n", setter, alt.Field.Name())
		}
		w.Printf("func (%s *%s) %s(%s)%s {\n", r, name, setter, params, errResult(hasErr))

		if store && tr.Assign != nil {
			// Same alternative: assign in place
			w.Printf("if %s.%s == %s {\n", r, u.Layout.Tag, tag)
			call := fmt.Sprintf("%s.%s(%s)", u.Layout.Ref(w, alt, r), tr.Assign.Name, v)
			writeReturn(w, call, tr.Assign.HasErr, hasErr)
			w.Printf("}\n")
		}

		errVar := ""
		if u.hasDestroySwitch() {
			if u.destroyHasErr() {
				errVar = w.Name("err")
				w.Printf("%s := %s.destroyPayload()\n", errVar, r)
			} else {
				w.Printf("%s.destroyPayload()\n", r)
			}
		}
		switch {
		case store:
			w.Printf("%s = %s\n", u.Layout.Val(w, alt, r), v)
		case tr.Lock:
			// Inactive pointer-free fields may keep stale values.
			w.Printf("%s = %z\n", u.Layout.Val(w, alt, r), alt.Payload)
		}
		w.Printf("%s.%s = %s\n", r, u.Layout.Tag, tag)

		switch {
		case hasErr && errVar != "":
			w.Printf("return %s\n", errVar)
		case hasErr:
			w.Printf("return nil\n")
		}
		w.Printf("}\n\n")
	}
}

func (u *Union) writeDestroy(w *codefmt.Writer) {
	name := u.Schema.Name()
	hasErr := u.destroyHasErr()

	if u.hasDestroySwitch() {
		w := local(w)
		r := w.Name("u")

		w.Printf("// destroyPayload cleans up the active payload. The tag is left as is.\n")
		w.Printf("func (%s *%s) destroyPayload()%s {\n", r, name, errResult(hasErr))

		errVar := ""
		if hasErr {
			errVar = w.Name("err")
			w.Printf("var %s error\n", errVar)
		}

		w.Printf("switch %s.%s {\n", r, u.Layout.Tag)
		for _, alt := range u.Schema.Payloads() {
			if !u.hasDestroyCase(alt) {
				continue
			}
			w.Printf("case %s:\n", u.Consts[alt.Name])
			if c := u.Traits[alt.Name].Cleanup; c != nil {
				if c.HasErr {
					w.Printf("%s = %s.%s()\n", errVar, u.Layout.Ref(w, alt, r), c.Name)
				} else {
					w.Printf("%s.%s()\n", u.Layout.Ref(w, alt, r), c.Name)
				}
			}
			u.Layout.Release(w, alt, r)
		}
		w.Printf("}\n")

		if hasErr {
			w.Printf("return %s\n", errVar)
		}
		w.Printf("}\n\n")
	}

	w = local(w)
	r := w.Name("u")
	if u.Bundle.NeedsDestroy {
		w.Printf("// Destroy cleans up the payload and leaves the union unset.\n")
	} else {
		w.Printf("// Destroy leaves the union unset. No payload of %s needs cleanup.\n", name)
	}
	w.Printf("func (%s *%s) Destroy()%s {\n", r, name, errResult(hasErr))
	switch {
	case u.Bundle.NeedsDestroy && hasErr:
		errVar := w.Name("err")
		w.Printf("%s := %s.destroyPayload()\n", errVar, r)
		w.Printf("*%s = %s{}\n", r, name)
		w.Printf("return %s\n", errVar)
	case u.Bundle.NeedsDestroy:
		w.Printf("%s.destroyPayload()\n", r)
		w.Printf("*%s = %s{}\n", r, name)
	default:
		w.Printf("*%s = %s{}\n", r, name)
	}
	w.Printf("}\n\n")
}

// copyExpr returns an expression copying the payload of the alternative. The
// payload must not have a Clone method returning an error.
func (u *Union) copyExpr(w *codefmt.Writer, alt *schema.Alternative, recv string) string {
	tr := u.Traits[alt.Name]
	switch {
	case tr.Clone != nil:
		return fmt.Sprintf("%s.%s()", u.Layout.Ref(w, alt, recv), tr.Clone.Name)
	case tr.Container == derive.SliceContainer:
		return fmt.Sprintf("%s.Clone(%s)", w.Import("slices", ""), u.Layout.Val(w, alt, recv))
	case tr.Container == derive.MapContainer:
		return fmt.Sprintf("%s.Clone(%s)", w.Import("maps", ""), u.Layout.Val(w, alt, recv))
	}
	return u.Layout.Val(w, alt, recv)
}

func (u *Union) writeClone(w *codefmt.Writer) {
	w = local(w)
	name := u.Schema.Name()
	r, c, errVar := w.Name("u"), w.Name("c"), w.Name("err")
	hasErr := !u.Bundle.CopyNoErr

	var fixups []*schema.Alternative
	for _, alt := range u.Schema.Payloads() {
		tr := u.Traits[alt.Name]
		if tr.Clone != nil || tr.Container != derive.NoContainer {
			fixups = append(fixups, alt)
		}
	}

	ret, nilErr := name, ""
	if hasErr {
		ret, nilErr = "("+name+", error)", ", nil"
	}

	w.Printf("// Clone returns a copy of the union.\n")
	w.Printf("func (%s *%s) Clone() %s {\n", r, name, ret)
	if len(fixups) == 0 {
		w.Printf("return *%s%s\n}\n\n", r, nilErr)
		return
	}

	w.Printf("%s := *%s\n", c, r)
	if hasErr {
		w.Printf("var %s error\n", errVar)
	}
	w.Printf("switch %s.%s {\n", r, u.Layout.Tag)
	for _, alt := range fixups {
		tr := u.Traits[alt.Name]
		w.Printf("case %s:\n", u.Consts[alt.Name])
		if tr.Clone != nil && tr.Clone.HasErr {
			w.Printf("if %s, %s = %s.%s(); %s != nil {\n", u.Layout.Val(w, alt, c), errVar, u.Layout.Ref(w, alt, r), tr.Clone.Name, errVar)
			w.Printf("return %s{}, %s\n", name, errVar)
			w.Printf("}\n")
			continue
		}
		w.Printf("%s = %s\n", u.Layout.Val(w, alt, c), u.copyExpr(w, alt, r))
	}
	w.Printf("}\n")
	w.Printf("return %s%s\n", c, nilErr)
	w.Printf("}\n\n")
}

func (u *Union) writeCopyFrom(w *codefmt.Writer) {
	w = local(w)
	name := u.Schema.Name()
	r, src, v, errVar := w.Name("u"), w.Name("src"), w.Name("v"), w.Name("err")
	hasErr := !u.Bundle.CopyAssignNoErr

	w.Printf("// CopyFrom makes the union a copy of %s. The payload is assigned in place\n", src)
	w.Printf("// if both hold the same alternative.\n")
	w.Printf("func (%s *%s) CopyFrom(%s *%s)%s {\n", r, name, src, name, errResult(hasErr))
	if hasErr {
		w.Printf("if %s == %s {\nreturn nil\n}\n", r, src)
	} else {
		w.Printf("if %s == %s {\nreturn\n}\n", r, src)
	}

	w.Printf("switch %s.%s {\n", src, u.Layout.Tag)
	w.Printf("case %s:\n", u.Unset)
	writeReturn(w, r+".Destroy()", u.destroyHasErr(), hasErr)

	for _, alt := range u.Schema.Alternatives() {
		w.Printf("case %s:\n", u.Consts[alt.Name])
		setter := u.Setters[alt.Name]
		tr := u.Traits[alt.Name]

		switch {
		case alt.IsVoid():
			writeReturn(w, fmt.Sprintf("%s.%s()", r, setter), u.setHasErr(alt), hasErr)
		case tr.Clone != nil && tr.Clone.HasErr:
			w.Printf("%s, %s := %s.%s()\n", v, errVar, u.Layout.Ref(w, alt, src), tr.Clone.Name)
			w.Printf("if %s != nil {\nreturn %s\n}\n", errVar, errVar)
			writeReturn(w, fmt.Sprintf("%s.%s(%s)", r, setter, v), u.setHasErr(alt), hasErr)
		default:
			writeReturn(w, fmt.Sprintf("%s.%s(%s)", r, setter, u.copyExpr(w, alt, src)), u.setHasErr(alt), hasErr)
		}
	}
	w.Printf("}\n")

	if hasErr {
		w.Printf("return nil\n")
	}
	w.Printf("}\n\n")
}

func (u *Union) writeTake(w *codefmt.Writer) {
	w = local(w)
	name := u.Schema.Name()
	r, t := w.Name("u"), w.Name("t")

	w.Printf("// Take moves the payload to a new union and leaves the union unset. No\n")
	w.Printf("// cleanup runs.\n")
	w.Printf("func (%s *%s) Take() %s {\n", r, name, name)
	w.Printf("%s := *%s\n", t, r)
	w.Printf("*%s = %s{}\n", r, name)
	w.Printf("return %s\n", t)
	w.Printf("}\n\n")
}

func (u *Union) writeMoveFrom(w *codefmt.Writer) {
	w = local(w)
	name := u.Schema.Name()
	r, src, t := w.Name("u"), w.Name("src"), w.Name("t")
	hasErr := !u.Bundle.MoveAssignNoErr

	w.Printf("// MoveFrom moves the payload of %s to the union and leaves %s unset.\n", src, src)
	w.Printf("func (%s *%s) MoveFrom(%s *%s)%s {\n", r, name, src, name, errResult(hasErr))
	if hasErr {
		w.Printf("if %s == %s {\nreturn nil\n}\n", r, src)
	} else {
		w.Printf("if %s == %s {\nreturn\n}\n", r, src)
	}

	w.Printf("%s := %s.Take()\n", t, src)
	w.Printf("switch %s.%s {\n", t, u.Layout.Tag)
	w.Printf("case %s:\n", u.Unset)
	writeReturn(w, r+".Destroy()", u.destroyHasErr(), hasErr)

	for _, alt := range u.Schema.Alternatives() {
		w.Printf("case %s:\n", u.Consts[alt.Name])
		setter := u.Setters[alt.Name]
		if alt.IsVoid() {
			writeReturn(w, fmt.Sprintf("%s.%s()", r, setter), u.setHasErr(alt), hasErr)
			continue
		}
		writeReturn(w, fmt.Sprintf("%s.%s(%s)", r, setter, u.Layout.Val(w, alt, t)), u.setHasErr(alt), hasErr)
	}
	w.Printf("}\n")

	if hasErr {
		w.Printf("return nil\n")
	}
	w.Printf("}\n\n")
}

func (u *Union) writeEqual(w *codefmt.Writer) {
	w = local(w)
	name := u.Schema.Name()
	r, o := w.Name("u"), w.Name("o")

	w.Printf("// Equal reports whether both unions hold the same alternative with equal\n")
	w.Printf("// payloads.\n")
	w.Printf("func (%s *%s) Equal(%s *%s) bool {\n", r, name, o, name)
	w.Printf("if %s.%s != %s.%s {\nreturn false\n}\n", r, u.Layout.Tag, o, u.Layout.Tag)

	if payloads := u.Schema.Payloads(); len(payloads) != 0 {
		w.Printf("switch %s.%s {\n", r, u.Layout.Tag)
		for _, alt := range payloads {
			tr := u.Traits[alt.Name]
			w.Printf("case %s:\n", u.Consts[alt.Name])
			switch {
			case tr.Equal != nil && tr.Equal.Ptr:
				w.Printf("return %s.%s(%s)\n", u.Layout.Ref(w, alt, r), tr.Equal.Name, u.Layout.Ptr(w, alt, o))
			case tr.Equal != nil:
				w.Printf("return %s.%s(%s)\n", u.Layout.Ref(w, alt, r), tr.Equal.Name, u.Layout.Val(w, alt, o))
			default:
				w.Printf("return %s == %s\n", u.Layout.Val(w, alt, r), u.Layout.Val(w, alt, o))
			}
		}
		w.Printf("}\n")
	}
	w.Printf("return true\n")
	w.Printf("}\n\n")
}
