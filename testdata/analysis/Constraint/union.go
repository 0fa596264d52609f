//go:build tagunion

package testdata

import "github.com/sublee/tagunion"

type Value tagunion.Union[struct {
	Text string
	None tagunion.Void
}]
