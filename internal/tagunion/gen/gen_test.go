package gen_test

import (
	"bytes"
	"go/format"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/derive"
	"github.com/sublee/tagunion/internal/tagunion/gen"
	"github.com/sublee/tagunion/internal/tagunion/parse"
	"github.com/sublee/tagunion/internal/tagunion/schema/schematest"
	"github.com/sublee/tagunion/internal/tagunion/storage"
)

const src = `//go:build tagunion

package demo

import (
	"errors"
	"sync"

	"github.com/sublee/tagunion"
)

// Value is a dynamically typed value.
type Value tagunion.Union[struct {
	STRING  string ` + "`tagunion:\"Text\"`" + `
	INTEGER int
	NONE    tagunion.Void
}]

type Point struct{ X, Y int32 }

type Numbers tagunion.Union[struct {
	Int   int64
	Point Point
	Pair  [2]float64
}]

type Color tagunion.Union[struct {
	Red   tagunion.Void
	Green tagunion.Void
}]

type Circle struct{ R float64 }

type Square struct{ S float64 }

type Shape tagunion.Union[struct {
	SHAPE_CIRCLE Circle
	SHAPE_SQUARE Square
}]

var _ = tagunion.Options[Shape](
	tagunion.TagType("Kind"),
	tagunion.TagPrefix("Is"),
	tagunion.TrimCommonTagPrefix(),
	tagunion.NoOverlay(),
	tagunion.NoPtrAccessors(),
)

type Cloner struct{ items []int }

func (c Cloner) Clone() (Cloner, error) { return Cloner{items: append([]int(nil), c.items...)}, nil }

type File struct{ name string }

func (f *File) Close() error { return errors.New("closed") }

type Counter struct{ n *int }

func (c *Counter) Destroy()         { *c.n++ }
func (c *Counter) Assign(o Counter) { c.n = o.n }

type Resources tagunion.Union[struct {
	Cloner  Cloner
	File    File
	Counter Counter
}]

type Guarded struct {
	mu sync.Mutex
	n  int
}

type Locked tagunion.Union[struct {
	Guarded Guarded
	Name    string
}]

type Containers tagunion.Union[struct {
	Slice []int
	Map   map[string]int
}]

type Nested tagunion.Union[struct {
	Value Value
	Color Color
}]

type Res struct{ closes int }

func (r *Res) Close() error { r.closes++; return nil }
func (r *Res) Clone() *Res  { return &Res{} }

type Conn tagunion.Union[struct {
	Res  *Res
	None tagunion.Void
}]

type Frame struct{ Data []byte }

type Packet struct{ Data []byte }

func (p Packet) Clone() Packet { return Packet{Data: append([]byte(nil), p.Data...)} }

type Wire tagunion.Union[struct {
	Frame  Frame
	Packet Packet
}]

type Dynamic tagunion.Union[struct {
	Any   any
	Count int
}]
`

// generate builds every union in the source and returns the formatted code of
// the named one.
func generate(t *testing.T, src, name string) (*gen.Union, string) {
	t.Helper()

	us, pkgNS, w := build(t, src)
	for _, u := range us {
		if u.Schema.Name() != name {
			continue
		}

		var buf bytes.Buffer
		u.WriteCode(w.WithBuf(&buf).WithNS(pkgNS))

		code, err := format.Source(buf.Bytes())
		require.NoError(t, err, buf.String())
		return u, string(code)
	}
	require.FailNow(t, "union not found", name)
	return nil, ""
}

func build(t *testing.T, src string) ([]*gen.Union, codefmt.NS, *codefmt.Writer) {
	t.Helper()

	pkg := schematest.Package(t, src)
	p, err := parse.New(pkg)
	require.NoError(t, err)

	opts, err := p.ParseOptions()
	require.NoError(t, err)
	pus, err := p.ParseUnions(opts)
	require.NoError(t, err)

	ns := codefmt.NewNS(pkg.Types.Scope())
	d := derive.New()

	var us []*gen.Union
	for _, pu := range pus {
		u, err := gen.Build(pkg, pu, d, ns)
		require.NoError(t, err)
		us = append(us, u)
	}
	return us, ns, codefmt.NewWriter(&bytes.Buffer{}, pkg)
}

func buildErr(t *testing.T, src string) error {
	t.Helper()

	pkg := schematest.Package(t, src)
	p, err := parse.New(pkg)
	require.NoError(t, err)

	opts, err := p.ParseOptions()
	require.NoError(t, err)
	pus, err := p.ParseUnions(opts)
	require.NoError(t, err)

	ns := codefmt.NewNS(pkg.Types.Scope())
	d := derive.New()
	for _, pu := range pus {
		if _, err := gen.Build(pkg, pu, d, ns); err != nil {
			return err
		}
	}
	return nil
}

func TestFields(t *testing.T) {
	u, code := generate(t, src, "Value")
	assert.Equal(t, storage.Fields, u.Layout.Kind)
	assert.Equal(t, "ValueTag", u.TagType)
	assert.Equal(t, "ValueUnset", u.Unset)
	assert.Equal(t, "ValueString", u.Consts["String"])
	assert.Equal(t, "NewValueNone", u.Ctors["None"])
	assert.Equal(t, "TextPtr", u.PtrAccessors["String"])

	assert.Contains(t, code, "type ValueTag uint8\n")
	assert.Contains(t, code, "\tValueUnset ValueTag = iota\n\tValueString\n\tValueInteger\n\tValueNone\n")
	assert.Contains(t, code, "\tcase ValueString:\n\t\treturn \"STRING\"\n")
	assert.Contains(t, code, "\treturn \"ValueTag(\" + strconv.Itoa(int(t)) + \")\"\n")

	assert.Contains(t, code, "// Value is a dynamically typed value.\ntype Value struct {\n\ttag     ValueTag\n\ttext    string\n\tinteger int\n}\n")

	assert.Contains(t, code, "func NewValueString(v string) Value {\n\treturn Value{tag: ValueString, text: v}\n}\n")
	assert.Contains(t, code, "func NewValueNone() Value {\n\treturn Value{tag: ValueNone}\n}\n")

	assert.Contains(t, code, "func (u *Value) Text() string {\n"+
		"\tif tagcheck.Enabled && u.tag != ValueString {\n"+
		"\t\ttagcheck.Fail(\"Value\", ValueString, u.tag)\n"+
		"\t}\n"+
		"\treturn u.text\n"+
		"}\n")
	assert.Contains(t, code, "func (u *Value) IntegerPtr() *int {\n")
	assert.Contains(t, code, "\treturn &u.integer\n")

	assert.Contains(t, code, "func (u *Value) SetString(v string) {\n"+
		"\tu.destroyPayload()\n"+
		"\tu.text = v\n"+
		"\tu.tag = ValueString\n"+
		"}\n")
	assert.Contains(t, code, "func (u *Value) SetNone() {\n\tu.destroyPayload()\n\tu.tag = ValueNone\n}\n")

	assert.Contains(t, code, "func (u *Value) destroyPayload() {\n"+
		"\tswitch u.tag {\n"+
		"\tcase ValueString:\n"+
		"\t\tu.text = \"\"\n"+
		"\t}\n"+
		"}\n")
	assert.NotContains(t, code, "u.integer = 0", "pointer-free payloads are not cleared")
	assert.Contains(t, code, "func (u *Value) Destroy() {\n\t*u = Value{}\n}\n")

	assert.Contains(t, code, "func (u *Value) Clone() Value {\n\treturn *u\n}\n")
	assert.Contains(t, code, "func (u *Value) CopyFrom(src *Value) {\n")
	assert.Contains(t, code, "\tcase ValueString:\n\t\tu.SetString(src.text)\n\t\treturn\n")
	assert.Contains(t, code, "func (u *Value) Take() Value {\n\tt := *u\n\t*u = Value{}\n\treturn t\n}\n")
	assert.Contains(t, code, "\tt := src.Take()\n\tswitch t.tag {\n\tcase ValueUnset:\n\t\tu.Destroy()\n\t\treturn\n")
	assert.Contains(t, code, "\tcase ValueNone:\n\t\tu.SetNone()\n\t\treturn\n")
	assert.Contains(t, code, "\tcase ValueInteger:\n\t\treturn u.integer == o.integer\n")
}

func TestOverlay(t *testing.T) {
	u, code := generate(t, src, "Numbers")
	assert.Equal(t, storage.Overlay, u.Layout.Kind)

	assert.Contains(t, code, "\tdata [(max(unsafe.Sizeof(*new(int64)), unsafe.Sizeof(*new(Point)), unsafe.Sizeof(*new([2]float64))) + 7) / 8]uint64\n")
	assert.Contains(t, code, "func NewNumbersInt(v int64) Numbers {\n"+
		"\tvar u Numbers\n"+
		"\tu.tag = NumbersInt\n"+
		"\t*(*int64)(unsafe.Pointer(&u.data)) = v\n"+
		"\treturn u\n"+
		"}\n")
	assert.Contains(t, code, "\treturn *(*Point)(unsafe.Pointer(&u.data))\n")
	assert.Contains(t, code, "func (u *Numbers) SetPair(v [2]float64) {\n"+
		"\t*(*[2]float64)(unsafe.Pointer(&u.data)) = v\n"+
		"\tu.tag = NumbersPair\n"+
		"}\n")
	assert.NotContains(t, code, "destroyPayload", "overlay payloads need no cleanup")
	assert.Contains(t, code, "\t\treturn *(*int64)(unsafe.Pointer(&u.data)) == *(*int64)(unsafe.Pointer(&o.data))\n")
}

func TestTagOnly(t *testing.T) {
	u, code := generate(t, src, "Color")
	assert.Equal(t, storage.TagOnly, u.Layout.Kind)

	assert.Contains(t, code, "type Color struct {\n\ttag ColorTag\n}\n")
	assert.Contains(t, code, "func NewColorRed() Color {\n\treturn Color{tag: ColorRed}\n}\n")
	assert.Contains(t, code, "func (u *Color) SetGreen() {\n\tu.tag = ColorGreen\n}\n")
	assert.Contains(t, code, "func (u *Color) Equal(o *Color) bool {\n"+
		"\tif u.tag != o.tag {\n"+
		"\t\treturn false\n"+
		"\t}\n"+
		"\treturn true\n"+
		"}\n")
	assert.NotContains(t, code, "tagcheck")
}

func TestOptions(t *testing.T) {
	u, code := generate(t, src, "Shape")
	assert.Equal(t, storage.Fields, u.Layout.Kind, "NoOverlay")
	assert.Equal(t, "Kind", u.TagType)
	assert.Equal(t, "IsUnset", u.Unset)
	assert.Equal(t, "IsCircle", u.Consts["Circle"])
	assert.Equal(t, "NewShapeSquare", u.Ctors["Square"])
	assert.Empty(t, u.PtrAccessors)

	assert.Contains(t, code, "type Kind uint8\n")
	assert.Contains(t, code, "\tIsUnset Kind = iota\n\tIsCircle\n\tIsSquare\n")
	assert.Contains(t, code, "\tcase IsCircle:\n\t\treturn \"SHAPE_CIRCLE\"\n")
	assert.Contains(t, code, "func (u *Shape) Circle() Circle {\n")
	assert.NotContains(t, code, "CirclePtr")

	assert.NotContains(t, code, "destroyPayload", "pointer-free payloads need no cleanup")
	assert.Contains(t, code, "func (u *Shape) SetCircle(v Circle) {\n\tu.circle = v\n\tu.tag = IsCircle\n}\n")
	assert.Contains(t, code, "func (u *Shape) Destroy() {\n\t*u = Shape{}\n}\n")
}

func TestMethods(t *testing.T) {
	_, code := generate(t, src, "Resources")

	assert.Contains(t, code, "func (u *Resources) destroyPayload() error {\n"+
		"\tvar err error\n"+
		"\tswitch u.tag {\n"+
		"\tcase ResourcesCloner:\n"+
		"\t\tu.cloner = Cloner{}\n"+
		"\tcase ResourcesFile:\n"+
		"\t\terr = u.file.Close()\n"+
		"\t\tu.file = File{}\n"+
		"\tcase ResourcesCounter:\n"+
		"\t\tu.counter.Destroy()\n"+
		"\t\tu.counter = Counter{}\n"+
		"\t}\n"+
		"\treturn err\n"+
		"}\n")
	assert.Contains(t, code, "func (u *Resources) Destroy() error {\n"+
		"\terr := u.destroyPayload()\n"+
		"\t*u = Resources{}\n"+
		"\treturn err\n"+
		"}\n")

	assert.Contains(t, code, "func (u *Resources) SetCounter(v Counter) error {\n"+
		"\tif u.tag == ResourcesCounter {\n"+
		"\t\tu.counter.Assign(v)\n"+
		"\t\treturn nil\n"+
		"\t}\n"+
		"\terr := u.destroyPayload()\n"+
		"\tu.counter = v\n"+
		"\tu.tag = ResourcesCounter\n"+
		"\treturn err\n"+
		"}\n")

	assert.Contains(t, code, "func (u *Resources) Clone() (Resources, error) {\n")
	assert.Contains(t, code, "\t\tif c.cloner, err = u.cloner.Clone(); err != nil {\n\t\t\treturn Resources{}, err\n\t\t}\n")
	assert.Contains(t, code, "func (u *Resources) CopyFrom(src *Resources) error {\n")
	assert.Contains(t, code, "\t\tv, err := src.cloner.Clone()\n\t\tif err != nil {\n\t\t\treturn err\n\t\t}\n\t\treturn u.SetCloner(v)\n")
	assert.Contains(t, code, "func (u *Resources) MoveFrom(src *Resources) error {\n")
	assert.NotContains(t, code, "func (u *Resources) Equal(")
}

func TestLock(t *testing.T) {
	u, code := generate(t, src, "Locked")
	assert.Equal(t, "GuardedPtr", u.PtrAccessors["Guarded"])

	assert.Contains(t, code, "func NewLockedGuarded() Locked {\n\treturn Locked{tag: LockedGuarded}\n}\n")
	assert.Contains(t, code, "func (u *Locked) SetGuarded() {\n\tu.destroyPayload()\n\tu.guarded = Guarded{}\n\tu.tag = LockedGuarded\n}\n")
	assert.Contains(t, code, "func (u *Locked) destroyPayload() {\n"+
		"\tswitch u.tag {\n"+
		"\tcase LockedName:\n"+
		"\t\tu.name = \"\"\n"+
		"\t}\n"+
		"}\n")
	assert.Contains(t, code, "func (u *Locked) GuardedPtr() *Guarded {\n")
	assert.NotContains(t, code, "func (u *Locked) Guarded() Guarded")
	assert.NotContains(t, code, "Clone")
	assert.NotContains(t, code, "Take")
	assert.NotContains(t, code, "CopyFrom")
	assert.NotContains(t, code, "MoveFrom")
}

func TestContainers(t *testing.T) {
	_, code := generate(t, src, "Containers")
	assert.Contains(t, code, "\t\tc.slice = slices.Clone(u.slice)\n")
	assert.Contains(t, code, "\t\tc.map_ = maps.Clone(u.map_)\n")
	assert.Contains(t, code, "\t\tu.SetSlice(slices.Clone(src.slice))\n")
}

func TestNested(t *testing.T) {
	_, code := generate(t, src, "Nested")
	assert.Contains(t, code, "\t\treturn u.value.Equal(&o.value)\n")
	assert.Contains(t, code, "\t\tc.value = u.value.Clone()\n")
}

func TestDescribe(t *testing.T) {
	u, _ := generate(t, src, "Value")
	layout, caps := u.Describe()
	assert.Equal(t, "fields", layout)
	assert.Equal(t, "Clone, CopyFrom, Take, MoveFrom, Equal, Destroy (trivial)", caps)
}

func TestUint16Tag(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("//go:build tagunion\n\npackage demo\n\nimport \"github.com/sublee/tagunion\"\n\ntype Many tagunion.Union[struct {\n")
	for i := range 256 {
		b.WriteString("\tA")
		b.WriteString(string(rune('a'+i%26)) + string(rune('a'+i/26)))
		b.WriteString(" tagunion.Void\n")
	}
	b.WriteString("}]\n")

	_, code := generate(t, b.String(), "Many")
	assert.Contains(t, code, "type ManyTag uint16\n")
}

func TestAlreadyDeclared(t *testing.T) {
	err := buildErr(t, `//go:build tagunion

package demo

import "github.com/sublee/tagunion"

type ValueTag int

type Value tagunion.Union[struct {
	Int int
}]
`)
	assert.ErrorContains(t, err, "cannot generate ValueTag; already declared")
}

func TestMethodConflict(t *testing.T) {
	err := buildErr(t, `//go:build tagunion

package demo

import "github.com/sublee/tagunion"

type Value tagunion.Union[struct {
	Int  int
	Text string
}]

func (u *Value) Clone() Value { return *u }
`)
	assert.ErrorContains(t, err, "method Clone conflicts with method Clone declared at")
}

func TestPointerPayload(t *testing.T) {
	u, code := generate(t, src, "Conn")
	assert.True(t, u.Traits["Res"].Trivial())

	assert.NotContains(t, code, "Close()")
	assert.NotContains(t, code, ".Clone()")
	assert.Contains(t, code, "func (u *Conn) Destroy() {\n\t*u = Conn{}\n}\n")
	assert.Contains(t, code, "func (u *Conn) Clone() Conn {\n\treturn *u\n}\n")
	assert.Contains(t, code, "func (u *Conn) destroyPayload() {\n"+
		"\tswitch u.tag {\n"+
		"\tcase ConnRes:\n"+
		"\t\tu.res = nil\n"+
		"\t}\n"+
		"}\n")
	assert.Contains(t, code, "\t\treturn u.res == o.res\n")
}

func TestSharedPayload(t *testing.T) {
	u, code := generate(t, src, "Wire")
	assert.False(t, u.Bundle.Copy, "Frame has no Clone method")
	assert.True(t, u.Bundle.Move)

	assert.NotContains(t, code, "func (u *Wire) Clone(")
	assert.NotContains(t, code, "func (u *Wire) CopyFrom(")
	assert.Contains(t, code, "func (u *Wire) Take() Wire {\n")
	assert.Contains(t, code, "func (u *Wire) MoveFrom(src *Wire) {\n")
}

func TestInterfacePayload(t *testing.T) {
	u, code := generate(t, src, "Dynamic")
	assert.False(t, u.Bundle.Equal, "== on interfaces may panic")
	assert.NotContains(t, code, "func (u *Dynamic) Equal(")
	assert.Contains(t, code, "func (u *Dynamic) Clone() Dynamic {\n")
}
