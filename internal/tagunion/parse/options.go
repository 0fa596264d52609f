package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"iter"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/schema"
)

// Options configures code generation of a union. The zero value is the
// default configuration.
type Options struct {
	// Pos is the position of the Options directive. It is invalid if the
	// union has no Options directive.
	Pos token.Pos

	// TagType is the name of the tag type. Empty means the default.
	TagType string

	// TagPrefix is the prefix of tag constants. It is used only when
	// HasTagPrefix is set, because an empty prefix is allowed.
	TagPrefix    string
	HasTagPrefix bool

	TrimCommonTagPrefix bool
	NoOverlay           bool
	NoPtrAccessors      bool
}

// ParseOptions finds and parses all package-level tagunion.Options
// directives. The result is keyed by the union type name.
func (p *Parser) ParseOptions() (map[*types.TypeName]Options, error) {
	var errs error
	opts := make(map[*types.TypeName]Options)

	for _, file := range p.TagunionGoFiles() {
		for id, call := range p.FindOptions(file) {
			if id.Name != "_" {
				err := codefmt.Errorf(p, id, "Options must be assigned to the blank identifier")
				errs = errors.Join(errs, err)
				continue
			}

			target, err := p.parseOptionsTarget(call)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}

			if prev, ok := opts[target]; ok {
				err := codefmt.Errorf(p, call, "duplicate Options for %s; first at %b", target.Name(), prev.Pos)
				errs = errors.Join(errs, err)
				continue
			}

			o, err := p.ParseOptionArgs(call)
			errs = errors.Join(errs, err)
			o.Pos = call.Pos()
			opts[target] = o
		}
	}
	return opts, errs
}

// FindOptions iterates package-level tagunion.Options calls. It does not
// collect calls inside functions.
func (p *Parser) FindOptions(file *ast.File) iter.Seq2[*ast.Ident, *ast.CallExpr] {
	return func(yield func(*ast.Ident, *ast.CallExpr) bool) {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}

			for _, spec := range gen.Specs {
				val := spec.(*ast.ValueSpec)
				for i, id := range val.Names {
					if len(val.Values) <= i {
						break
					}

					call, ok := ast.Unparen(val.Values[i]).(*ast.CallExpr)
					if !ok || !p.IsDirective(call, "Options") {
						continue
					}

					if !yield(id, call) {
						return
					}
				}
			}
		}
	}
}

// parseOptionsTarget returns the union type given as the type argument of
// tagunion.Options.
func (p *Parser) parseOptionsTarget(call *ast.CallExpr) (*types.TypeName, error) {
	id, ok := tailIdent(call.Fun)
	if !ok {
		return nil, codefmt.Errorf(p, call, "cannot find union of Options")
	}

	inst, ok := p.Pkg().TypesInfo.Instances[id]
	if !ok || inst.TypeArgs.Len() != 1 {
		return nil, codefmt.Errorf(p, call, "Options needs the union as type argument")
	}

	typ := inst.TypeArgs.At(0)
	named, _, ok := schema.StructOf(typ)
	if !ok || named.Obj().Pkg() != p.Pkg().Types {
		return nil, codefmt.Errorf(p, call, "%t is not a union declared in this package", typ)
	}
	return named.Obj(), nil
}

// ParseOptionArgs parses the option arguments of a tagunion.Options call.
func (p *Parser) ParseOptionArgs(call *ast.CallExpr) (Options, error) {
	var o Options
	var errs error
	seen := make(map[string]token.Pos)

	for _, arg := range call.Args {
		if _, ok := ast.Unparen(arg).(*ast.Ident); ok {
			err := codefmt.Errorf(p, arg, "option must be inlined, not assigned to variable")
			errs = errors.Join(errs, err)
			continue
		}

		optCall, ok := ast.Unparen(arg).(*ast.CallExpr)
		if !ok {
			// Every option type is unexported, so the only way to get an
			// option is to call an option directive.
			err := codefmt.Errorf(p, arg, "cannot use %c as option", arg)
			errs = errors.Join(errs, err)
			continue
		}

		name, err := p.parseOption(&o, optCall)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if prev, ok := seen[name]; ok {
			err := codefmt.Errorf(p, optCall, "duplicate option %s; first at %b", name, prev)
			errs = errors.Join(errs, err)
			continue
		}
		seen[name] = optCall.Pos()
	}
	return o, errs
}

func (p *Parser) parseOption(o *Options, call *ast.CallExpr) (string, error) {
	callee := typeutil.Callee(p.Pkg().TypesInfo, call)
	if callee == nil || callee.Pkg() == nil || !schema.IsTagunionImport(callee.Pkg().Path()) {
		return "", codefmt.Errorf(p, call, "option must be tagunion directive")
	}

	name := callee.Name()
	switch name {
	case "TagType":
		expr, err := needArgs1(p, call)
		if err != nil {
			return name, err
		}
		s, err := parseStringArg(p, expr)
		if err != nil {
			return name, err
		}
		if !token.IsIdentifier(s) {
			return name, codefmt.Errorf(p, expr, "%q is not a valid identifier", s)
		}
		o.TagType = s

	case "TagPrefix":
		expr, err := needArgs1(p, call)
		if err != nil {
			return name, err
		}
		s, err := parseStringArg(p, expr)
		if err != nil {
			return name, err
		}
		if s != "" && !token.IsIdentifier(s) {
			return name, codefmt.Errorf(p, expr, "%q is not a valid identifier", s)
		}
		o.TagPrefix = s
		o.HasTagPrefix = true

	case "TrimCommonTagPrefix":
		o.TrimCommonTagPrefix = true
		return name, needArgs0(p, call)

	case "NoOverlay":
		o.NoOverlay = true
		return name, needArgs0(p, call)

	case "NoPtrAccessors":
		o.NoPtrAccessors = true
		return name, needArgs0(p, call)

	default:
		return name, codefmt.Errorf(p, call.Fun, "%s is not supported option", name)
	}
	return name, nil
}
