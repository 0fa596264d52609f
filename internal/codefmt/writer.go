package codefmt

import (
	"go/ast"
	"go/token"
	"go/types"
	"io"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
)

// Writer writes generated code for a package. Packages referred by the
// arguments of [Writer.Printf] are collected as imports, so the code can be
// framed with an import declaration later.
type Writer struct {
	w       io.Writer
	pkg     *packages.Package
	fmt     Formatter
	imports map[string]Import
	ns      NS
}

// NewWriter creates a [Writer] without namespace. Use [Writer.WithNS] to set
// one.
func NewWriter(w io.Writer, pkg *packages.Package) *Writer {
	return &Writer{
		w:       w,
		pkg:     pkg,
		fmt:     New(pkg),
		imports: make(map[string]Import),
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Pkg returns the package the code is generated for.
func (w *Writer) Pkg() *packages.Package { return w.pkg }

// Printf writes code formatted by [Formatter.Fprintf].
func (w *Writer) Printf(format string, args ...any) {
	w.importArgs(args...)
	_, _ = w.fmt.Fprintf(w.w, format, args...)
}

// Sprintf formats code by [Formatter.Sprintf]. Imports are collected even
// though nothing is written.
func (w *Writer) Sprintf(format string, args ...any) string {
	w.importArgs(args...)
	return w.fmt.Sprintf(format, args...)
}

// Name returns a unique name in the namespace of the writer.
func (w *Writer) Name(name string) string {
	return w.ns.Name(name)
}

// NS returns the namespace of the writer.
func (w *Writer) NS() NS { return w.ns }

// WithBuf copies the writer with a new underlying buffer. Imports are shared.
func (w *Writer) WithBuf(buf io.Writer) *Writer {
	c := *w
	c.w = buf
	return &c
}

// WithNS copies the writer with a new namespace. Imports are shared.
func (w *Writer) WithNS(ns NS) *Writer {
	c := *w
	c.ns = ns
	return &c
}

// Import is a package to import into the generated code.
type Import struct {
	*types.Package

	// HasAlias reports that the package is imported with a name other than
	// its own.
	HasAlias bool
}

// Imports returns the collected imports by their names.
func (w *Writer) Imports() map[string]Import {
	return w.imports
}

// Import adds an import of the package at path and returns the name to refer
// it. The name differs from the given one when it conflicts with another
// import or a package-level declaration.
//
//	errorsName := w.Import("errors", "")
//	w.Printf("%s.Join(errA, errB)", errorsName)
func (w *Writer) Import(path, name string) string {
	pkgName := name
	for _, imp := range w.pkg.Types.Imports() {
		if imp.Path() == path {
			pkgName = imp.Name()
			break
		}
	}
	if name == "" {
		name = pkgName
	}
	if name == "" {
		name = lastElem(path)
	}
	if pkgName == "" {
		pkgName = lastElem(path)
	}
	return w.addImport(types.NewPackage(path, name), pkgName)
}

// addImport records the package under a conflict-free name. The package is
// renamed to it so that [Formatter] qualifies its objects by the name.
func (w *Writer) addImport(pkg *types.Package, origName string) string {
	for name := range DisambiguateName(pkg.Name()) {
		prev, ok := w.imports[name]
		if ok && prev.Path() == pkg.Path() {
			pkg.SetName(name)
			return name
		}
		if !ok && w.pkg.Types.Scope().Lookup(name) == nil {
			w.imports[name] = Import{Package: pkg, HasAlias: name != origName}
			pkg.SetName(name)
			return name
		}
	}
	panic("unreachable")
}

// importObj records the package of a package-level object.
func (w *Writer) importObj(obj types.Object) {
	if obj == nil || obj.Pkg() == nil {
		// Universe scope
		return
	}
	if obj.Pkg().Path() == w.pkg.PkgPath {
		return
	}
	w.addImport(obj.Pkg(), obj.Pkg().Name())
}

// importType records the packages of every named type composing the type.
func (w *Writer) importType(typ types.Type) {
	switch typ := typ.(type) {
	case *types.Alias:
		w.importObj(typ.Obj())
		for arg := range typ.TypeArgs().Types() {
			w.importType(arg)
		}
	case *types.Named:
		w.importObj(typ.Obj())
		for arg := range typ.TypeArgs().Types() {
			w.importType(arg)
		}
	case *types.Pointer:
		w.importType(typ.Elem())
	case *types.Slice:
		w.importType(typ.Elem())
	case *types.Array:
		w.importType(typ.Elem())
	case *types.Chan:
		w.importType(typ.Elem())
	case *types.Map:
		w.importType(typ.Key())
		w.importType(typ.Elem())
	case *types.Struct:
		for field := range typ.Fields() {
			w.importType(field.Type())
		}
	case *types.Tuple:
		for v := range typ.Variables() {
			w.importType(v.Type())
		}
	case *types.Signature:
		w.importType(typ.Params())
		w.importType(typ.Results())
	case *types.Interface:
		for method := range typ.ExplicitMethods() {
			w.importType(method.Type())
		}
		for embedded := range typ.EmbeddedTypes() {
			w.importType(embedded)
		}
	}
}

// importAST records the packages referred by identifiers in the node.
func (w *Writer) importAST(node ast.Node) {
	ast.Inspect(node, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			w.importType(w.pkg.TypesInfo.TypeOf(id))
			w.importObj(w.pkg.TypesInfo.ObjectOf(id))
		}
		return true
	})
}

func (w *Writer) importArgs(args ...any) {
	for _, arg := range args {
		switch arg := arg.(type) {
		case ast.Expr:
			w.importAST(arg)
		case types.Object:
			w.importObj(arg)
		case types.Type:
			w.importType(arg)
		case Exprer:
			w.importAST(arg.Expr())
		case Objecter:
			w.importObj(arg.Object())
		case Typer:
			w.importType(arg.Type())
		case TypeInfoer:
			w.importType(arg.TypeInfo().Type())
		}
	}
}

// RewriteImports rewrites package qualifiers in the node to the names
// collected by the writer. Identifiers dot-imported from other packages are
// qualified as well.
func RewriteImports[T ast.Node](w *Writer, node T) T {
	return astutil.Apply(node, func(c *astutil.Cursor) bool {
		switch node := c.Node().(type) {
		case *ast.Ident:
			// Println from a dot import of "fmt"
			obj := w.pkg.TypesInfo.ObjectOf(node)
			if obj == nil {
				return false
			}
			pkg := obj.Pkg()
			if pkg == nil || pkg.Path() == w.pkg.PkgPath || obj.Parent() != pkg.Scope() {
				return true
			}

			name := w.Import(pkg.Path(), pkg.Name())
			c.Replace(qualified(name, node.NamePos, node))
			return false

		case *ast.SelectorExpr:
			// fmt.Println
			pkgIdent, ok := node.X.(*ast.Ident)
			if !ok {
				return true
			}
			pkgName, ok := w.pkg.TypesInfo.ObjectOf(pkgIdent).(*types.PkgName)
			if !ok {
				return true
			}

			pkg := pkgName.Imported()
			name := w.Import(pkg.Path(), pkg.Name())
			c.Replace(qualified(name, pkgIdent.NamePos, node.Sel))
			return false
		}
		return true
	}, nil).(T)
}

// qualified builds "name.sel" at the position.
func qualified(name string, pos token.Pos, sel *ast.Ident) *ast.SelectorExpr {
	return &ast.SelectorExpr{
		X: &ast.Ident{NamePos: pos, Name: name},
		Sel: &ast.Ident{
			NamePos: pos + token.Pos(len(name)+1),
			Name:    sel.Name,
			Obj:     sel.Obj,
		},
	}
}

// lastElem returns the last element of an import path.
func lastElem(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
