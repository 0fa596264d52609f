package main

import "fmt"

func main() {
	x := 1
	r := NewRefInt(&x)

	// Pointers are copied as is.
	c := r.Clone()
	*c.Int() = 5
	fmt.Println(x)

	o := NewRefInt(&x)
	fmt.Println(r.Equal(&o))

	y := 5
	o.SetInt(&y)
	fmt.Println(r.Equal(&o))
}
