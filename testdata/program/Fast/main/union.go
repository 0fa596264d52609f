//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Maybe tagunion.Union[struct {
	Some int
	None tagunion.Void
}]
