//go:build tagunion

package testdata

import "github.com/sublee/tagunion"

type Shape tagunion.Union[struct {
	Circle float64
	Rect   [2]float64
}]

type Token tagunion.Union[struct {
	Number float64
	Ident  string
}]

var opts = tagunion.Options[Shape]() // want `Options must be assigned to the blank identifier`

var _ = tagunion.Options[Shape](
	tagunion.TagType("1Kind"), // want `"1Kind" is not a valid identifier`
	tagunion.NoOverlay(),
	tagunion.NoOverlay(), // want `duplicate option NoOverlay; first at .*options.go:21:2`
)

var _ = tagunion.Options[Shape]() // want `duplicate Options for Shape; first at .*options.go:19:9`

var _ = tagunion.Options[int]() // want `int is not a union declared in this package`

const prefix = "Kind"

var noOverlay = tagunion.NoOverlay() // want `tagunion.NoOverlay can only be used in union declarations and Options`

var _ = tagunion.Options[Token](
	noOverlay,                  // want `option must be inlined, not assigned to variable`
	tagunion.TagPrefix(prefix), // want `prefix is not string literal`
	tagunion.TagPrefix("a b"),  // want `"a b" is not a valid identifier`
)
