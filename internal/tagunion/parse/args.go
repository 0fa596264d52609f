package parse

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/sublee/tagunion/internal/codefmt"
)

func parseStringArg(p *Parser, expr ast.Expr) (string, error) {
	lit, ok := ast.Unparen(expr).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", codefmt.Errorf(p, expr, "%c is not string literal", expr)
	}
	s, _ := strconv.Unquote(lit.Value)
	return s, nil
}

func needArgs0(p *Parser, call *ast.CallExpr) error {
	if len(call.Args) != 0 {
		return codefmt.Errorf(p, call, "need no parameters")
	}
	return nil
}

func needArgs1(p *Parser, call *ast.CallExpr) (ast.Expr, error) {
	if len(call.Args) != 1 {
		return nil, codefmt.Errorf(p, call, "need 1 parameter")
	}
	return call.Args[0], nil
}

// tailIdent extracts the rightmost [ast.Ident] from the expression.
//
//	Foo
//	^^^
//	pkg.Foo
//	    ^^^
//	pkg.Foo[T]
//	    ^^^
func tailIdent(expr ast.Expr) (*ast.Ident, bool) {
	expr = ast.Unparen(expr)
	switch expr := expr.(type) {
	case *ast.Ident:
		return expr, true
	case *ast.SelectorExpr:
		return tailIdent(expr.Sel)
	case *ast.IndexExpr:
		return tailIdent(expr.X)
	case *ast.IndexListExpr:
		return tailIdent(expr.X)
	}
	return nil, false
}
