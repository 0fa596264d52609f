//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Empty tagunion.Union[struct{}]

type Dup tagunion.Union[struct {
	A int
	B string `tagunion:"A"`
}]

var _ = tagunion.Options[Dup](tagunion.NoOverlay(), tagunion.NoOverlay())
