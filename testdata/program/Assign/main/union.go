//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Slot tagunion.Union[struct {
	Buffer Buffer
	Empty  tagunion.Void
}]
