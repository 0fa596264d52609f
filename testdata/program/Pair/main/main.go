package main

import "fmt"

func main() {
	d := NewDuoPair(Pair{1, 2})
	e := NewDuoPair(Pair{1, 2})
	fmt.Println(d.Equal(&e))

	e.PairPtr().Second = 3
	fmt.Println(d.Equal(&e), e.Pair())

	e.SetNames([2]string{"a", "b"})
	fmt.Println(d.Equal(&e), e.Names())
}
