//go:build tagunion

package testdata

import "github.com/sublee/tagunion"

type Value tagunion.Union[struct { // want `cannot generate ValueTag; already declared` `method Clone conflicts with method Clone declared at .*methods.go:5:17`
	Text string // want `cannot generate NewValueText; already declared`
	Size int    // want `setter of Size conflicts with method SetSize declared at .*methods.go:7:17`
}]
