package codefmt

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"io"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/tagunion/internal/typeinfo"
)

type (
	Pkger      interface{ Pkg() *packages.Package }
	Poser      interface{ Pos() token.Pos }
	Ender      interface{ End() token.Pos }
	Exprer     interface{ Expr() ast.Expr }
	Objecter   interface{ Object() types.Object }
	Typer      interface{ Type() types.Type }
	TypeInfoer interface{ TypeInfo() typeinfo.Type }
)

func (f Formatter) wrapPrintfArgs(args []any) []any {
	wrapped := make([]any, len(args))
	for i, arg := range args {
		switch arg.(type) {
		case token.Pos, token.Position, ast.Expr, types.Object, types.Type:
			wrapped[i] = formatArg{arg, f}
		case Poser, Exprer, Objecter, Typer, TypeInfoer:
			wrapped[i] = formatArg{arg, f}
		default:
			wrapped[i] = arg
		}
	}
	return wrapped
}

type formatArg struct {
	x   any
	fmt Formatter
}

func (f formatArg) Object() types.Object {
	switch x := f.x.(type) {
	case types.Object:
		return x
	case Objecter:
		return x.Object()
	}
	if named, ok := f.typ().(*types.Named); ok {
		return named.Obj()
	}
	return nil
}

func (f formatArg) Expr() ast.Expr {
	switch x := f.x.(type) {
	case ast.Expr:
		return x
	case Exprer:
		return x.Expr()
	}
	return nil
}

// typ returns the type only when the argument is typed itself.
func (f formatArg) typ() types.Type {
	switch x := f.x.(type) {
	case types.Type:
		return x
	case Typer:
		return x.Type()
	case TypeInfoer:
		return x.TypeInfo().Type()
	}
	return nil
}

func (f formatArg) Type() types.Type {
	if typ := f.typ(); typ != nil {
		return typ
	}
	if obj := f.Object(); obj != nil {
		return obj.Type()
	}
	if expr := f.Expr(); expr != nil && f.fmt.TypesInfo != nil {
		return f.fmt.TypesInfo.TypeOf(expr)
	}
	return nil
}

func (f formatArg) Position() *token.Position {
	var pos token.Pos
	switch x := f.x.(type) {
	case token.Position:
		return &x
	case token.Pos:
		pos = x
	case Poser:
		pos = x.Pos()
	default:
		obj := f.Object()
		if obj == nil {
			return nil
		}
		pos = obj.Pos()
	}
	if f.fmt.Fset == nil {
		return &token.Position{}
	}
	p := f.fmt.Fset.Position(pos)
	return &p
}

// Format implements fmt.Formatter.
//
// Supported verbs:
//
//	%o: types.Object (e.g., *types.TypeName, *types.Func) - short form
//	%t: types.Type - short form
//	%q: types.Type - with parentheses for pointer types
//	%z: types.Type - zero value
//	%c: ast.Expr - code form
//	%b: token.Position - file:line:column form
//
// Other verbs fall back to the fmt package.
func (f formatArg) Format(s fmt.State, verb rune) {
	var out string
	switch verb {
	case 'o':
		obj := f.Object()
		if obj == nil {
			fmt.Fprintf(s, "[%%o cannot format %T]", f.x)
			return
		}
		out = f.fmt.Obj(obj)

	case 't', 'q', 'z':
		typ := f.Type()
		if typ == nil {
			fmt.Fprintf(s, "[%%%c cannot format %T]", verb, f.x)
			return
		}
		switch verb {
		case 't':
			out = f.fmt.Type(typ)
		case 'q':
			out = f.fmt.TypeParen(typ)
		case 'z':
			out = f.fmt.Zero(typ)
		}

	case 'c':
		expr := f.Expr()
		if expr == nil {
			fmt.Fprintf(s, "[%%c cannot format %T]", f.x)
			return
		}
		out = f.fmt.Expr(expr)

	case 'b':
		pos := f.Position()
		if pos == nil {
			fmt.Fprintf(s, "[%%b cannot format %T]", f.x)
			return
		}
		out = FormatPosition(*pos)

	default:
		fmt.Fprintf(s, fmt.FormatString(s, verb), f.x)
		return
	}
	_, _ = io.WriteString(s, out)
}

func (f Formatter) Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, f.wrapPrintfArgs(args)...)
}

func (f Formatter) Fprintf(w io.Writer, format string, args ...any) (int, error) {
	return fmt.Fprintf(w, format, f.wrapPrintfArgs(args)...)
}
