// Package tagunionanalysis reports misuses of Tagunion directives as
// analysis diagnostics.
package tagunionanalysis

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/tagunion/internal/codefmt"
	tagunioninternal "github.com/sublee/tagunion/internal/tagunion"
)

// Analyzer validates the usage of Tagunion in the package. It runs on
// packages loaded with the "tagunion" build tag. Type errors are expected in
// such packages when the generated code is missing, so it runs despite them.
var Analyzer = &analysis.Analyzer{
	Name:             "tagunion",
	Doc:              "linter for tagunion usage",
	Run:              run,
	RunDespiteErrors: true,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:      pass.Pkg.Name(),
		PkgPath:   pass.Pkg.Path(),
		Types:     pass.Pkg,
		Fset:      pass.Fset,
		Syntax:    pass.Files,
		TypesInfo: pass.TypesInfo,
	}

	tu, err := tagunioninternal.New(pkg)
	if err != nil {
		return nil, err
	}

	if err := tu.Build(); err != nil {
		codeErrs, _ := codefmt.CodeErrors(err)
		for _, codeErr := range codeErrs {
			pass.Report(analysis.Diagnostic{
				Pos:     codeErr.Pos(),
				End:     codeErr.End(),
				Message: codeErr.Unwrap().Error(),
			})
		}
	}

	return nil, nil
}
