//go:build tagunion

package shape

import "github.com/sublee/tagunion"

// Shape is a circle with its radius or a rectangle with its width and height.
type Shape tagunion.Union[struct {
	Circle float64
	Rect   [2]float64
}]
