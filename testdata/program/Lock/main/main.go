package main

import "fmt"

func main() {
	c := NewCellCounter()
	p := c.CounterPtr()
	p.mu.Lock()
	p.n += 2
	p.mu.Unlock()
	fmt.Println(c.Tag(), c.CounterPtr().n)

	c.SetPlain(3)
	fmt.Println(c.Tag(), c.Plain())

	_, hasClone := any(&c).(interface{ Clone() Cell })
	_, hasEqual := any(&c).(interface{ Equal(*Cell) bool })
	fmt.Println(hasClone, hasEqual)
}
