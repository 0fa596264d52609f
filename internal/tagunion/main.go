package tagunioninternal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/tagunion/internal/codefmt"
	"github.com/sublee/tagunion/internal/tagunion/gen"
	"github.com/sublee/tagunion/internal/tagunion/parse"
)

var Version string

// Output is the generated code of a package.
type Output struct {
	// Path is the path of the file to write, relative to the working
	// directory if possible.
	Path string
	Code []byte

	// Unions are the unions generated in the file.
	Unions []*gen.Union
}

// Main is the main entry point for Tagunion. It is used by the command-line
// tool directly.
//
// ctx is the context for loading packages. wd is the path of the working
// directory. env is the environment variables to use when running the tool.
// tags is the build tags to use when loading packages. tests indicates
// whether to include test files. outFile is the name of the output file to
// generate in each package. And patterns are the package patterns to process.
//
// It returns the generated files in the order of packages. If any error
// occurs, it returns a non-nil error.
func Main(ctx context.Context, wd string, env []string, tags string, tests bool, outFile string, patterns []string) ([]Output, error) {
	pkgs, err := load(ctx, wd, env, tags, tests, patterns)
	if err != nil {
		return nil, err
	}

	var outs []Output
	var errs error

	for _, pkg := range pkgs {
		tu, err := New(pkg)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if err := tu.Build(); err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		code := tu.Generate()
		if len(code) == 0 {
			continue
		}

		outDir := filepath.Dir(pkg.GoFiles[0])
		if rel, err := filepath.Rel(wd, outDir); err == nil {
			outDir = rel
		}
		outs = append(outs, Output{
			Path:   filepath.Join(outDir, outFile),
			Code:   code,
			Unions: tu.Unions(),
		})
	}
	if errs != nil {
		// errs already contains comprehensive error messages. So we don't need
		// to attach another error message.
		return nil, reorderErrors(errs)
	}

	return outs, nil
}

// load loads packages with the "tagunion" build tag.
//
// Files without the tagunion constraint may refer the code not generated yet,
// so their type errors are tolerated. Any other error fails loading.
func load(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedDeps | packages.NeedFiles | packages.NeedImports | packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=tagunion"},
		Tests:      tests,
	}
	if tags != "" {
		cfg.BuildFlags[0] += "," + tags
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	var errs error
	for _, pkg := range pkgs {
		tagunionFiles := make(map[string]bool)
		for _, file := range pkg.Syntax {
			if parse.HasGoBuildTagunion(file) {
				tagunionFiles[pkg.Fset.File(file.Pos()).Name()] = true
			}
		}

		for _, err := range pkg.Errors {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if err.Kind == packages.TypeError && !tagunionFiles[path] {
				continue
			}

			if rel, relErr := filepath.Rel(wd, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return pkgs, nil
}

// reorderErrors flattens joined errors and sorts them by message, so that
// errors in the same file are listed by their positions.
func reorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	list := codefmt.Flatten(errs)
	slices.SortStableFunc(list, func(a, b error) int {
		return strings.Compare(a.Error(), b.Error())
	})
	return errors.Join(list...)
}
