// Package tagcheck implements the runtime contract checks of generated tagged
// unions.
//
// Generated accessors verify the current tag before reading a payload:
//
//	if tagcheck.Enabled && u.tag != ValueString {
//		tagcheck.Fail("Value", ValueString, u.tag)
//	}
//
// Enabled is a constant, so the whole check is compiled out when the program
// is built with the "tagunion_fast" build tag. A fast build reading an inactive
// alternative observes an undefined payload. The build tag applies to the
// whole program, so checked and fast unions never mix in one binary.
package tagcheck

import "fmt"

// MismatchError is the panic value of [Fail]. It reports an access to an
// alternative which is not active.
type MismatchError struct {
	// Union is the name of the union type.
	Union string

	// Want is the tag of the accessed alternative.
	Want string

	// Got is the tag of the active alternative.
	Got string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("tagunion: %s accessed as %s but holds %s", e.Union, e.Want, e.Got)
}

// Fail panics with a [MismatchError]. It is called by generated code only
// when [Enabled] is true.
func Fail(union string, want, got fmt.Stringer) {
	panic(&MismatchError{
		Union: union,
		Want:  want.String(),
		Got:   got.String(),
	})
}

// Mode returns "checked" or "fast" depending on the build configuration.
func Mode() string {
	if Enabled {
		return "checked"
	}
	return "fast"
}
