package main

import (
	"fmt"

	"example.com/CrossPackage/shape"
)

func main() {
	d := NewDrawingShape(shape.NewShapeRect([2]float64{2, 3}))
	fmt.Println(d.ShapePtr().Area())

	c := d.Clone()
	fmt.Println(c.Equal(&d))

	c.ShapePtr().SetCircle(1)
	fmt.Println(c.ShapePtr().Area(), c.Equal(&d))

	d.SetLabel("x")
	fmt.Println(d.Tag(), d.Label())
}
