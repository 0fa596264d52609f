//go:build tagunion

package main

import "github.com/sublee/tagunion"

// Number holds either a long or an integer. Both are free of pointers, so
// they share storage.
type Number tagunion.Union[struct {
	LONG    int64
	INTEGER int32
}]

// Wide is Number without the overlay layout.
type Wide tagunion.Union[struct {
	LONG    int64
	INTEGER int32
}]

var _ = tagunion.Options[Wide](tagunion.NoOverlay())
