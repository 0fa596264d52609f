package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"iter"
	"reflect"
	"slices"
	"strings"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/schema"
	"github.com/sublee/tagunion/internal/words"
)

// Union is a union declaration with its schema and options.
type Union struct {
	Schema  *schema.Schema
	Options Options

	// Decl and Spec are the declaration of the union type. Both are erased
	// from the generated code.
	Decl *ast.GenDecl
	Spec *ast.TypeSpec
}

func (u *Union) Pos() token.Pos { return u.Spec.Name.Pos() }

// Doc returns the doc comment of the union type declaration.
func (u *Union) Doc() *ast.CommentGroup {
	if u.Spec.Doc != nil {
		return u.Spec.Doc
	}
	if !u.Decl.Lparen.IsValid() {
		// type Foo tagunion.Union[...]
		return u.Decl.Doc
	}
	return nil
}

// ParseUnions finds and parses all unions declared in files with the
// "//go:build tagunion" constraint.
func (p *Parser) ParseUnions(opts map[*types.TypeName]Options) ([]*Union, error) {
	var errs error
	var unions []*Union

	for _, file := range p.TagunionGoFiles() {
		for decl, spec := range p.FindUnions(file) {
			u, err := p.ParseUnion(decl, spec, opts)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			unions = append(unions, u)
		}
	}
	return unions, errs
}

// FindUnions iterates package-level type declarations which look like unions,
// including invalid ones such as aliases of tagunion.Union.
func (p *Parser) FindUnions(file *ast.File) iter.Seq2[*ast.GenDecl, *ast.TypeSpec] {
	return func(yield func(*ast.GenDecl, *ast.TypeSpec) bool) {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				spec := spec.(*ast.TypeSpec)
				if !p.isUnionSpec(spec) {
					continue
				}
				if !yield(gen, spec) {
					return
				}
			}
		}
	}
}

func (p *Parser) isUnionSpec(spec *ast.TypeSpec) bool {
	obj := p.Pkg().TypesInfo.Defs[spec.Name]
	if obj == nil {
		return false
	}
	if spec.Assign.IsValid() {
		return schema.IsUnionDirective(obj.Type())
	}
	return schema.IsUnion(obj.Type())
}

// ParseUnion parses a union type declaration into its schema.
func (p *Parser) ParseUnion(decl *ast.GenDecl, spec *ast.TypeSpec, opts map[*types.TypeName]Options) (*Union, error) {
	if spec.Assign.IsValid() {
		return nil, codefmt.Errorf(p, spec, "union %s must be a type definition, not an alias", spec.Name.Name)
	}
	if spec.TypeParams != nil {
		return nil, codefmt.Errorf(p, spec, "generic union %s is not supported", spec.Name.Name)
	}

	obj := p.Pkg().TypesInfo.Defs[spec.Name].(*types.TypeName)
	named, s, _ := schema.StructOf(obj.Type())

	st, ok := s.Underlying().(*types.Struct)
	if !ok {
		return nil, codefmt.Errorf(p, spec.Type, "union %s needs a struct of alternatives, not %t", obj.Name(), s)
	}
	if st.NumFields() == 0 {
		return nil, codefmt.Errorf(p, spec, "empty union %s", obj.Name())
	}

	o := opts[obj]
	names, err := p.alternativeNames(st, o.TrimCommonTagPrefix)
	if err != nil {
		return nil, err
	}

	var errs error
	sch := schema.New(named)
	for i := range st.NumFields() {
		alt, err := p.parseAlternative(st, i, names[i])
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if err := sch.Add(alt); err != nil {
			errs = errors.Join(errs, codefmt.Errorf(p, alt, "%s", err.Error()))
		}
	}
	if errs != nil {
		return nil, errs
	}

	return &Union{
		Schema:  sch,
		Options: o,
		Decl:    decl,
		Spec:    spec,
	}, nil
}

// alternativeNames computes the names of alternatives in PascalCase. With
// trim, the longest common word prefix of the field names is dropped.
func (p *Parser) alternativeNames(st *types.Struct, trim bool) ([]string, error) {
	fieldNames := make([]string, st.NumFields())
	for i := range st.NumFields() {
		fieldNames[i] = st.Field(i).Name()
	}

	prefix := ""
	if trim {
		prefix = words.CommonPrefix(slices.DeleteFunc(slices.Clone(fieldNames), func(name string) bool {
			return name == "_"
		}))
	}

	var errs error
	names := make([]string, len(fieldNames))
	for i, fieldName := range fieldNames {
		if fieldName == "_" {
			// Reported by parseAlternative
			continue
		}
		name := words.Pascal(strings.TrimPrefix(fieldName, prefix))
		if name == "" {
			name = words.Pascal(fieldName)
		}
		if name == "" {
			err := codefmt.Errorf(p, st.Field(i), "cannot name alternative %s", fieldName)
			errs = errors.Join(errs, err)
		}
		names[i] = name
	}
	return names, errs
}

func (p *Parser) parseAlternative(st *types.Struct, i int, name string) (*schema.Alternative, error) {
	field := st.Field(i)
	if field.Embedded() {
		return nil, codefmt.Errorf(p, field, "embedded alternative %t is not supported", field.Type())
	}
	if field.Name() == "_" {
		return nil, codefmt.Errorf(p, field, "alternative must be named")
	}

	accessor, hasAccessor := reflect.StructTag(st.Tag(i)).Lookup("tagunion")
	alt := &schema.Alternative{Field: field, Name: name}

	if schema.IsVoid(field.Type()) {
		if hasAccessor {
			return nil, codefmt.Errorf(p, field, "void alternative %s cannot have accessor", field.Name())
		}
		return alt, nil
	}

	if hasAccessor && !token.IsIdentifier(accessor) {
		return nil, codefmt.Errorf(p, field, "accessor %q of %s is not a valid identifier", accessor, field.Name())
	}
	if !hasAccessor {
		accessor = name
	}

	alt.Payload = field.Type()
	alt.Accessor = accessor
	return alt, nil
}
