// Package parse collects union declarations and their options from the
// syntax of a package loaded with the "tagunion" build tag.
package parse

import (
	"fmt"
	"go/ast"
	"go/build/constraint"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/sublee/tagunion/internal/tagunion/schema"
)

// Parser parses an AST of the underlying package to collect unions.
type Parser struct{ pkg *packages.Package }

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("need pkg types")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if pkg.TypesInfo == nil {
		return nil, fmt.Errorf("need pkg types info")
	}
	return &Parser{pkg: pkg}, nil
}

// GetDirective returns the name of the Tagunion directive function if the call
// expression is a Tagunion directive. Otherwise, it returns false.
func (p *Parser) GetDirective(call *ast.CallExpr) (string, bool) {
	callee := typeutil.Callee(p.Pkg().TypesInfo, call)
	if callee == nil {
		return "", false
	}

	pkg := callee.Pkg()
	if pkg == nil {
		// Built-in functions like panic()
		return "", false
	}

	if !schema.IsTagunionImport(pkg.Path()) {
		return "", false
	}

	return callee.Name(), true
}

// IsDirective checks if the call expression is a Tagunion directive with the
// given name. If name is empty, it checks if the call is any Tagunion
// directive.
func (p *Parser) IsDirective(call *ast.CallExpr, name string) bool {
	calleeName, ok := p.GetDirective(call)
	if !ok {
		return false
	}
	return name == "" || calleeName == name
}

// TagunionGoFiles returns the Go files that have a "//go:build tagunion"
// constraint.
func (p *Parser) TagunionGoFiles() []*ast.File {
	var files []*ast.File
	for _, file := range p.Pkg().Syntax {
		if HasGoBuildTagunion(file) {
			files = append(files, file)
		}
	}
	return files
}

// HasGoBuildTagunion checks if the file has a "//go:build tagunion"
// constraint. The tag may be combined with others, but a negated tag such as
// "!tagunion" of generated files does not count.
func HasGoBuildTagunion(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			// Build constraints precede the package clause.
			break
		}
		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) {
				continue
			}
			expr, err := constraint.Parse(comment.Text)
			if err != nil {
				continue
			}
			if requiresTag(expr, "tagunion", false) {
				return true
			}
		}
	}
	return false
}

// requiresTag reports whether the tag appears in the constraint without
// negation.
func requiresTag(expr constraint.Expr, tag string, negated bool) bool {
	switch expr := expr.(type) {
	case *constraint.TagExpr:
		return expr.Tag == tag && !negated
	case *constraint.NotExpr:
		return requiresTag(expr.X, tag, !negated)
	case *constraint.AndExpr:
		return requiresTag(expr.X, tag, negated) || requiresTag(expr.Y, tag, negated)
	case *constraint.OrExpr:
		return requiresTag(expr.X, tag, negated) || requiresTag(expr.Y, tag, negated)
	}
	return false
}
