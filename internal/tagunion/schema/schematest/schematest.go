// Package schematest type-checks union declarations for tests.
package schematest

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/tagunion/internal/tagunion/schema"
	"github.com/sublee/tagunion/internal/words"
)

// PkgPath is the path of packages checked by [Check].
const PkgPath = "example.com/demo"

// Check type-checks a package at [PkgPath] from the source. The source may
// import the directive package and the standard library.
func Check(t testing.TB, src string) (*types.Package, *token.FileSet, *ast.File, *types.Info) {
	t.Helper()

	fset := token.NewFileSet()
	imp := &directiveImporter{std: importer.ForCompiler(fset, "source", nil)}

	directive, err := checkDirective(fset)
	require.NoError(t, err)
	imp.directive = directive

	file, err := parser.ParseFile(fset, "demo.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Types:     make(map[ast.Expr]types.TypeAndValue),
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Instances: make(map[*ast.Ident]types.Instance),
	}
	cfg := types.Config{Importer: imp}
	pkg, err := cfg.Check(PkgPath, fset, []*ast.File{file}, info)
	require.NoError(t, err)
	return pkg, fset, file, info
}

// Lookup type-checks the source and returns the type declared by name.
func Lookup(t testing.TB, src, name string) types.Type {
	t.Helper()
	pkg, _, _, _ := Check(t, src)
	obj := pkg.Scope().Lookup(name)
	require.NotNil(t, obj, "%s not declared", name)
	return obj.Type()
}

// Package type-checks the source as a loaded package.
func Package(t testing.TB, src string) *packages.Package {
	t.Helper()
	pkg, fset, file, info := Check(t, src)
	return &packages.Package{
		ID:        PkgPath,
		Name:      pkg.Name(),
		PkgPath:   PkgPath,
		Fset:      fset,
		Syntax:    []*ast.File{file},
		Types:     pkg,
		TypesInfo: info,
	}
}

// Schema builds the schema of a union declared in the package. Names are the
// field names in PascalCase. Accessors are taken from "tagunion" struct tags or
// the names.
func Schema(t testing.TB, pkg *types.Package, name string) *schema.Schema {
	t.Helper()

	obj := pkg.Scope().Lookup(name)
	require.NotNil(t, obj, "%s not declared", name)

	named, s, ok := schema.StructOf(obj.Type())
	require.True(t, ok, "%s is not a union", name)

	sch := schema.New(named)
	st := s.Underlying().(*types.Struct)
	for i := range st.NumFields() {
		field := st.Field(i)
		alt := &schema.Alternative{Field: field, Name: words.Pascal(field.Name())}
		if !schema.IsVoid(field.Type()) {
			alt.Payload = field.Type()
			alt.Accessor = reflect.StructTag(st.Tag(i)).Get("tagunion")
			if alt.Accessor == "" {
				alt.Accessor = alt.Name
			}
		}
		require.NoError(t, sch.Add(alt))
	}
	return sch
}

type directiveImporter struct {
	std       types.Importer
	directive *types.Package
}

func (imp *directiveImporter) Import(path string) (*types.Package, error) {
	if path == schema.ImportPath {
		return imp.directive, nil
	}
	return imp.std.Import(path)
}

// checkDirective type-checks tagunion.go at the repository root.
func checkDirective(fset *token.FileSet) (*types.Package, error) {
	_, self, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(self), "..", "..", "..", "..")

	file, err := parser.ParseFile(fset, filepath.Join(root, "tagunion.go"), nil, 0)
	if err != nil {
		return nil, err
	}
	return (&types.Config{}).Check(schema.ImportPath, fset, []*ast.File{file}, nil)
}
