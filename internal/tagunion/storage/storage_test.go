package storage_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/derive"
	"github.com/sublee/tagunion/internal/tagunion/schema/schematest"
	"github.com/sublee/tagunion/internal/tagunion/storage"
)

const src = `package demo

import (
	"sync"

	"github.com/sublee/tagunion"
)

type Number tagunion.Union[struct {
	INT   int64
	FLOAT float64
	PAIR  [2]int32
	NONE  tagunion.Void
}]

type Value tagunion.Union[struct {
	STRING  string ` + "`tagunion:\"Text\"`" + `
	INTEGER int
}]

type State tagunion.Union[struct {
	Idle    tagunion.Void
	Running tagunion.Void
}]

type Single tagunion.Union[struct {
	Only int
}]

type Locked tagunion.Union[struct {
	A struct{ mu sync.Mutex }
	B int
}]
`

func plan(t *testing.T, name string, noOverlay bool) (*storage.Layout, *codefmt.Writer, *bytes.Buffer) {
	t.Helper()

	pkg := schematest.Package(t, src)
	sch := schematest.Schema(t, pkg.Types, name)
	b, _, err := derive.New().Derive(sch)
	require.NoError(t, err)

	members := codefmt.NewNS(nil)
	members.Reserve("Tag")
	members.Reserve("Text")

	var buf bytes.Buffer
	w := codefmt.NewWriter(&buf, pkg)
	return storage.New(sch, storage.Choose(sch, b, noOverlay), members), w, &buf
}

func TestChoose(t *testing.T) {
	for _, tt := range []struct {
		name      string
		noOverlay bool
		want      storage.Kind
	}{
		{"Number", false, storage.Overlay},
		{"Number", true, storage.Fields},
		{"Value", false, storage.Fields},
		{"State", false, storage.TagOnly},
		{"Single", false, storage.Fields},
		{"Locked", false, storage.Fields},
	} {
		l, _, _ := plan(t, tt.name, tt.noOverlay)
		assert.Equal(t, tt.want, l.Kind, "%s (NoOverlay=%v)", tt.name, tt.noOverlay)
	}
}

func TestOverlay(t *testing.T) {
	l, w, buf := plan(t, "Number", false)
	require.Equal(t, storage.Overlay, l.Kind)

	l.Decl(w, "NumberTag")
	assert.Equal(t, "\ttag NumberTag\n"+
		"\tdata [(max(unsafe.Sizeof(*new(int64)), unsafe.Sizeof(*new(float64)), unsafe.Sizeof(*new([2]int32))) + 7) / 8]uint64\n",
		buf.String())
	assert.Contains(t, w.Imports(), "unsafe")

	sch := schematest.Schema(t, w.Pkg().Types, "Number")
	float, _ := sch.Lookup("Float")
	assert.Equal(t, "(*float64)(unsafe.Pointer(&u.data))", l.Ptr(w, float, "u"))
	assert.Equal(t, "*(*float64)(unsafe.Pointer(&u.data))", l.Val(w, float, "u"))

	buf.Reset()
	l.Release(w, float, "u")
	assert.Empty(t, buf.String())
}

func TestFields(t *testing.T) {
	l, w, buf := plan(t, "Value", false)
	require.Equal(t, storage.Fields, l.Kind)

	l.Decl(w, "ValueTag")
	assert.Equal(t, "\ttag ValueTag\n\ttext string\n\tinteger int\n", buf.String())
	assert.Empty(t, w.Imports())

	sch := schematest.Schema(t, w.Pkg().Types, "Value")
	str, _ := sch.Lookup("String")
	assert.Equal(t, "&c.text", l.Ptr(w, str, "c"))
	assert.Equal(t, "c.text", l.Ref(w, str, "c"))

	buf.Reset()
	l.Release(w, str, "u")
	assert.Equal(t, "u.text = \"\"\n", buf.String())
}

func TestFieldNameConflict(t *testing.T) {
	pkg := schematest.Package(t, src)
	sch := schematest.Schema(t, pkg.Types, "Value")

	members := codefmt.NewNS(nil)
	members.Reserve("text")
	l := storage.New(sch, storage.Fields, members)

	str, _ := sch.Lookup("String")
	assert.Equal(t, "text2", l.Field(str))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "overlay", storage.Overlay.String())
	assert.Equal(t, "Kind(9)", storage.Kind(9).String())
}
