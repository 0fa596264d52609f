//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Conn tagunion.Union[struct {
	Res  *Res
	None tagunion.Void
}]
