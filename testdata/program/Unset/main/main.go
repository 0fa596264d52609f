package main

import (
	"fmt"

	"github.com/sublee/tagunion/pkg/tagcheck"
)

func main() {
	var s State
	fmt.Println(s.Tag(), s.Tag() == StateUnset)

	s.SetRunning()
	fmt.Println(s.Tag())

	idle := NewStateIdle()
	fmt.Println(idle.Equal(&s))
	fmt.Println(StateTag(9))

	m := NewMaybeNone()
	defer func() {
		err := recover().(*tagcheck.MismatchError)
		fmt.Println(err)
	}()
	fmt.Println(m.Some())
}
