//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Ref tagunion.Union[struct {
	Int  *int
	Text *string
}]
