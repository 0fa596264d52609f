package tagunioninternal

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"go/token"
	"io"
	"maps"
	"path/filepath"
	"slices"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/derive"
	"github.com/sublee/tagunion/internal/tagunion/gen"
	"github.com/sublee/tagunion/internal/tagunion/parse"
	"github.com/sublee/tagunion/internal/tagunion/schema"
)

// Tagunion generates union code for the target package. Call [Build] and then
// [Generate] to get the generated code. All potential errors are returned by
// [Build]. Once [Build] succeeds, [Generate] never fails.
type Tagunion struct {
	p   *parse.Parser
	ns  codefmt.NS
	buf *bytes.Buffer
	w   *codefmt.Writer
	d   *derive.Deriver

	unions []*gen.Union
}

// New creates a new [Tagunion] for the given package. The package must have
// its Syntax, Types and TypesInfo.
func New(pkg *packages.Package) (*Tagunion, error) {
	parser, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	return &Tagunion{
		p:   parser,
		ns:  codefmt.NewNS(pkg.Types.Scope()),
		buf: &buf,
		w:   codefmt.NewWriter(&buf, pkg),
		d:   derive.New(),
	}, nil
}

// Build parses union declarations and resolves everything to generate. All
// potential errors are returned by this method. It must be called before
// [Generate].
func (tu *Tagunion) Build() error {
	errs := tu.p.Validate()

	opts, err := tu.p.ParseOptions()
	errs = errors.Join(errs, err)

	pus, err := tu.p.ParseUnions(opts)
	errs = errors.Join(errs, err)

	if errs != nil {
		return errs
	}

	for _, pu := range pus {
		u, err := gen.Build(tu.p.Pkg(), pu, tu.d, tu.ns)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		tu.unions = append(tu.unions, u)
	}
	return errs
}

// Unions returns the unions built by [Build] in declaration order.
func (tu *Tagunion) Unions() []*gen.Union {
	return tu.unions
}

// Generate generates union code for the package. It must be called after
// [Build] succeeds. It returns nil if the package declares no union.
func (tu *Tagunion) Generate() []byte {
	if len(tu.unions) == 0 {
		return nil
	}
	tu.writeUnionCode()
	tu.mergeCode()
	return tu.frameCode()
}

func (tu *Tagunion) writeUnionCode() {
	for _, u := range tu.unions {
		fmt.Fprintf(tu.buf, "// tagunion: %s\n\n", u.Schema.Name())
		u.WriteCode(tu.w.WithNS(tu.ns))
	}
}

// mergeCode copies non-tagunion code from the source files tagged with
// "//go:build tagunion". Union declarations and Options directives are
// erased to remove any references to the tagunion package.
func (tu *Tagunion) mergeCode() {
	specs := make(map[*ast.TypeSpec]bool)
	for _, u := range tu.unions {
		specs[u.Spec] = true
	}

	for _, file := range tu.p.TagunionGoFiles() {
		name := filepath.Base(tu.p.Pkg().Fset.File(file.Pos()).Name())
		first := true

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if ok && gen.Tok == token.IMPORT {
				// Required imports will be collected from their usage, and
				// then rewritten as an import declaration group.
				continue
			}

			// Erase union declarations and Options directives
			decl = astutil.Apply(decl, func(c *astutil.Cursor) bool {
				switch node := c.Node().(type) {
				case *ast.TypeSpec:
					if specs[node] {
						c.Delete()
					}
					return false
				case *ast.ValueSpec:
					if tu.isOptionsSpec(node) {
						c.Delete()
					}
					return false
				}
				return true
			}, nil).(ast.Decl)

			if gen, ok := decl.(*ast.GenDecl); ok && len(gen.Specs) == 0 {
				continue
			}

			if first {
				fmt.Fprintf(tu.buf, "// %s:\n\n", name)
				first = false
			}

			// Prevent import name conflicts when merging multiple files into one
			decl = codefmt.RewriteImports(tu.w, decl)

			printer.Fprint(tu.buf, tu.p.Pkg().Fset, &printer.CommentedNode{
				Node:     decl,
				Comments: file.Comments,
			})
			fmt.Fprintf(tu.buf, "\n\n")
		}
	}
}

// isOptionsSpec reports whether the value spec is "_ = tagunion.Options[U]()".
func (tu *Tagunion) isOptionsSpec(spec *ast.ValueSpec) bool {
	if len(spec.Values) != 1 {
		return false
	}
	call, ok := spec.Values[0].(*ast.CallExpr)
	return ok && tu.p.IsDirective(call, "Options")
}

func (tu *Tagunion) frameCode() []byte {
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build !tagunion\n\n")
	fmt.Fprintf(&buf, "// Code generated by github.com/sublee/tagunion%s. DO NOT EDIT.\n\n", versionSuffix)
	fmt.Fprintf(&buf, "package %s\n\n", tu.p.Pkg().Name)

	imports := tu.w.Imports()
	if len(imports) != 0 {
		fmt.Fprintf(&buf, "import (\n")
		for _, alias := range slices.Sorted(maps.Keys(imports)) {
			imp := imports[alias]
			if schema.IsTagunionImport(imp.Path()) {
				panic("tagunion import remains in generated code")
			}

			if imp.HasAlias {
				fmt.Fprintf(&buf, "%s %q\n", alias, imp.Path())
			} else {
				fmt.Fprintf(&buf, "%q\n", imp.Path())
			}
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	_, _ = io.Copy(&buf, tu.buf)
	code := buf.Bytes()

	// Apply gofmt if succeeded
	if fmtCode, err := format.Source(code); err == nil {
		code = fmtCode
	}
	return code
}
