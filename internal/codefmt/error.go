package codefmt

import (
	"errors"
	"fmt"
	"go/token"
	"slices"
)

// CodeError is an error located in the user's source code.
type CodeError struct {
	err  error
	pos  token.Pos
	end  token.Pos
	fset *token.FileSet
}

// Unwrap returns the underlying error.
func (e CodeError) Unwrap() error { return e.err }

// Pos returns the position where the error occurred. It may be invalid.
func (e CodeError) Pos() token.Pos { return e.pos }

// End returns the end position of the error. It may be invalid.
func (e CodeError) End() token.Pos { return e.end }

// Error implements the error interface. The position is prepended if it is
// valid.
func (e CodeError) Error() string {
	if e.err == nil {
		return ""
	}
	if !e.pos.IsValid() {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", FormatPosition(e.fset.Position(e.pos)), e.err.Error())
}

// Errorf formats an error message located at poser. If poser also implements
// [Ender], the error spans to its end.
//
// Errors cannot be wrapped. It panics if any argument is an error.
func (f Formatter) Errorf(poser Poser, format string, args ...any) error {
	for _, arg := range args {
		if _, ok := arg.(error); ok {
			panic("CodeError cannot wrap error")
		}
	}

	var pos, end token.Pos
	if poser != nil {
		pos = poser.Pos()
		if ender, ok := poser.(Ender); ok {
			end = ender.End()
		}
	}

	err := fmt.Errorf(format, f.wrapPrintfArgs(args)...)
	return &CodeError{err, pos, end, f.Fset}
}

// Flatten unrolls errors joined by [errors.Join]. The order of the leaves is
// preserved.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}

	var leaves []error
	queue := []error{err}
	for len(queue) != 0 {
		err := queue[0]
		queue = queue[1:]

		if u, ok := err.(interface{ Unwrap() []error }); ok {
			queue = append(slices.Clone(u.Unwrap()), queue...)
			continue
		}
		leaves = append(leaves, err)
	}
	return leaves
}

// CodeErrors collects [CodeError]s from err. Errors without a source location
// are returned separately.
func CodeErrors(err error) ([]*CodeError, []error) {
	var codeErrs []*CodeError
	var others []error
	for _, err := range Flatten(err) {
		var codeErr *CodeError
		if errors.As(err, &codeErr) {
			codeErrs = append(codeErrs, codeErr)
			continue
		}
		others = append(others, err)
	}
	return codeErrs, others
}
