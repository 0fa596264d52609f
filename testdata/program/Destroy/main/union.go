//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Resource tagunion.Union[struct {
	Handle Handle
	Code   int
}]
