package main

import "fmt"

type Res struct{ closes int }

func (r *Res) Close() error {
	r.closes++
	return nil
}

func (r *Res) Clone() *Res { return &Res{} }

func main() {
	shared := &Res{}
	u := NewConnRes(shared)
	c := u.Clone()
	u.Destroy()
	c.Destroy()
	fmt.Println(shared.closes, c.Tag())

	owned := &Res{}
	v := NewConnRes(owned)
	w := v.Clone()
	fmt.Println(w.Res() == owned, v.Equal(&w))

	v.SetNone()
	fmt.Println(owned.closes, v.Tag())
}
