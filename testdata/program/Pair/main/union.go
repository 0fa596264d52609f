//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Pair struct{ First, Second int }

type Duo tagunion.Union[struct {
	Pair  Pair
	Names [2]string
}]
