//go:build tagunion

package main

import "github.com/sublee/tagunion"

type State tagunion.Union[struct {
	Idle    tagunion.Void
	Running tagunion.Void
}]

type Maybe tagunion.Union[struct {
	Some int
	None tagunion.Void
}]
