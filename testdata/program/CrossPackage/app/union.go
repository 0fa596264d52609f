//go:build tagunion

package main

import (
	"example.com/CrossPackage/shape"
	"github.com/sublee/tagunion"
)

type Drawing tagunion.Union[struct {
	Shape shape.Shape
	Label string
}]
