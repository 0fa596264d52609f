//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Seq tagunion.Union[struct {
	Text string
	Fib  []int
	Nil  tagunion.Void
}]
