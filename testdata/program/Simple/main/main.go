package main

import (
	"fmt"
	"unsafe"
)

func main() {
	n := NewNumberLong(1 << 40)
	fmt.Println(n.Tag(), n.Long())

	n.SetInteger(7)
	fmt.Println(n.Tag(), n.Integer())

	*n.IntegerPtr() += 1
	fmt.Println(n.Integer())

	c := n.Clone()
	fmt.Println(c.Equal(&n))
	c.SetLong(8)
	fmt.Println(c.Equal(&n))

	var zero Number
	fmt.Println(zero.Tag(), zero.Equal(&Number{}))

	n.Destroy()
	fmt.Println(n.Tag())

	fmt.Println(unsafe.Sizeof(Number{}), unsafe.Sizeof(Wide{}))
}
