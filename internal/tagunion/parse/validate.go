package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/schema"
)

// Validate checks for usages outside expected paths. It collects all errors
// instead of stopping at the first error.
//
// Union declarations and Options directives are erased at code generation.
// Any other reference to the tagunion package would remain in the generated
// code, so it is rejected here.
func (p *Parser) Validate() error {
	var errs error
	for _, file := range p.Pkg().Syntax {
		errs = errors.Join(errs, p.validateConstraint(file))
	}
	for _, file := range p.TagunionGoFiles() {
		errs = errors.Join(errs, p.validateLocalUnions(file))
		errs = errors.Join(errs, p.validateDirectiveUsages(file))
	}
	return errs
}

// validateConstraint checks if files importing "github.com/sublee/tagunion"
// have "//go:build tagunion" constraint.
func (p *Parser) validateConstraint(file *ast.File) error {
	var tagunionImport *ast.ImportSpec
	for _, imp := range file.Imports {
		if schema.IsTagunionImport(strings.Trim(imp.Path.Value, `"`)) {
			tagunionImport = imp
			break
		}
	}
	if tagunionImport == nil {
		return nil
	}

	if HasGoBuildTagunion(file) {
		return nil
	}
	return codefmt.Errorf(p, tagunionImport, `file must have "//go:build tagunion" constraint when importing tagunion`)
}

// validateLocalUnions rejects unions declared inside functions. The generator
// only replaces package-level declarations.
func (p *Parser) validateLocalUnions(file *ast.File) error {
	var errs error
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}

		ast.Inspect(fn.Body, func(node ast.Node) bool {
			spec, ok := node.(*ast.TypeSpec)
			if !ok {
				return true
			}
			if p.isUnionSpec(spec) || p.refersUnionDirective(spec.Type) {
				err := codefmt.Errorf(p, spec, "union %s must be declared at package level", spec.Name.Name)
				errs = errors.Join(errs, err)
			}
			return false
		})
	}
	return errs
}

// validateDirectiveUsages checks that the identifiers of the tagunion package
// appear only in union declarations and Options directives.
func (p *Parser) validateDirectiveUsages(file *ast.File) error {
	var allowed []ast.Node
	for _, spec := range p.FindUnions(file) {
		allowed = append(allowed, spec)
	}
	for _, call := range p.FindOptions(file) {
		allowed = append(allowed, call)
	}
	isAllowed := func(pos token.Pos) bool {
		for _, node := range allowed {
			if node.Pos() <= pos && pos < node.End() {
				return true
			}
		}
		return false
	}

	var errs error
	ast.Inspect(file, func(node ast.Node) bool {
		switch node := node.(type) {
		case *ast.ImportSpec:
			return false
		case *ast.FuncDecl:
			if node.Body != nil && p.hasLocalUnion(node.Body) {
				// Reported by validateLocalUnions
				return false
			}
		case *ast.Ident:
			obj := p.Pkg().TypesInfo.Uses[node]
			if obj == nil || obj.Pkg() == nil || !schema.IsTagunionImport(obj.Pkg().Path()) {
				return true
			}
			if _, ok := obj.(*types.PkgName); ok {
				return true
			}
			if isAllowed(node.Pos()) {
				return true
			}
			err := codefmt.Errorf(p, node, "tagunion.%s can only be used in union declarations and Options", node.Name)
			errs = errors.Join(errs, err)
		}
		return true
	})
	return errs
}

func (p *Parser) hasLocalUnion(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(node ast.Node) bool {
		if spec, ok := node.(*ast.TypeSpec); ok && (p.isUnionSpec(spec) || p.refersUnionDirective(spec.Type)) {
			found = true
		}
		return !found
	})
	return found
}

// refersUnionDirective reports whether the type expression is an
// instantiation of tagunion.Union.
func (p *Parser) refersUnionDirective(expr ast.Expr) bool {
	return schema.IsUnionDirective(p.Pkg().TypesInfo.TypeOf(expr))
}
