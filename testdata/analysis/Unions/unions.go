//go:build tagunion

package testdata

import "github.com/sublee/tagunion"

type Empty tagunion.Union[struct{}] // want `empty union Empty`

type Alias = tagunion.Union[struct{ X int }] // want `union Alias must be a type definition, not an alias`

type Generic[T any] tagunion.Union[struct{ X T }] // want `generic union Generic is not supported`

type NotStruct tagunion.Union[int] // want `union NotStruct needs a struct of alternatives, not int`

type Payload struct{}

type Embedded tagunion.Union[struct {
	Payload // want `embedded alternative Payload is not supported`
	X       int
}]

type Blank tagunion.Union[struct {
	_ int // want `alternative must be named`
	X int
}]

type Accessors tagunion.Union[struct {
	A tagunion.Void `tagunion:"A"`  // want `void alternative A cannot have accessor`
	B int           `tagunion:"1b"` // want `accessor "1b" of B is not a valid identifier`
	C int
	D string `tagunion:"C"` // want `accessor C of D is already used by C`
}]

type Names tagunion.Union[struct {
	FOO int
	Foo string // want `alternative Foo conflicts with FOO`
}]

var stray tagunion.Void // want `tagunion.Void can only be used in union declarations and Options`

func local() {
	type Local tagunion.Union[struct{ X int }] // want `union Local must be declared at package level`
}
