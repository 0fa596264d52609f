// golangcilinttagunion package provides a plugin for golangci-lint to
// integrate the Tagunion analyzer. To build a custom golangci-lint binary with
// this plugin, use the following command at this package's directory:
//
//	golangci-lint custom
//
// Now you will have a golangci-lint-tagunion binary that you can use to lint
// your Go code with the Tagunion analyzer. Run it with "--build-tags=tagunion"
// so that union declarations are visible.
package golangcilinttagunion

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/sublee/tagunion/pkg/tagunionanalysis"
)

func init() {
	register.Plugin("tagunion", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return TagunionLinter{}, nil
}

type TagunionLinter struct{}

func (TagunionLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{tagunionanalysis.Analyzer}, nil
}

func (TagunionLinter) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
