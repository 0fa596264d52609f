package main

import (
	"fmt"

	"github.com/sublee/tagunion/pkg/tagcheck"
)

func main() {
	// The tag is not checked in fast builds. An inactive field of the fields
	// layout is zero.
	m := NewMaybeNone()
	fmt.Println(tagcheck.Mode(), m.Some())
}
