package main

import "fmt"

func fib(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		if i < 2 {
			seq[i] = i
			continue
		}
		seq[i] = seq[i-1] + seq[i-2]
	}
	return seq
}

func main() {
	s := NewSeqText("hello")
	fmt.Println(s.Tag(), s.Text())

	s.SetFib(fib(8))
	fmt.Println(s.Tag(), s.Fib())

	// Clone copies the slice.
	c := s.Clone()
	(*c.FibPtr())[0] = 100
	fmt.Println(s.Fib()[0], c.Fib()[0])

	var d Seq
	d.CopyFrom(&s)
	fmt.Println(d.Fib())

	t := s.Take()
	fmt.Println(s.Tag(), t.Tag(), len(t.Fib()))

	s.MoveFrom(&t)
	fmt.Println(s.Tag(), t.Tag())

	s.SetNil()
	fmt.Println(s.Tag())
}
