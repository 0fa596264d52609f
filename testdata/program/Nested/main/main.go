package main

import "fmt"

func main() {
	a := NewOuterInner(NewInnerNum(4))
	b := a.Clone()
	fmt.Println(a.Equal(&b))

	b.InnerPtr().SetText("x")
	in := a.Inner()
	fmt.Println(a.Equal(&b), in.Tag(), in.Num())

	a.SetFlag(true)
	fmt.Println(a.Tag(), a.Flag())
}
