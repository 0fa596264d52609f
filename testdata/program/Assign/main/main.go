package main

import (
	"fmt"
	"slices"
)

var assigns, destroys int

type Buffer struct{ data []byte }

func (b *Buffer) Assign(o Buffer) {
	assigns++
	b.data = append(b.data[:0], o.data...)
}

func (b Buffer) Clone() Buffer { return Buffer{slices.Clone(b.data)} }

func (b *Buffer) Destroy() {
	destroys++
}

func main() {
	s := NewSlotBuffer(Buffer{[]byte("ab")})
	s.SetBuffer(Buffer{[]byte("cd")})
	fmt.Println(assigns, destroys, string(s.Buffer().data))

	s.SetEmpty()
	fmt.Println(assigns, destroys)

	s.SetEmpty()
	fmt.Println(assigns, destroys)

	s.SetBuffer(Buffer{[]byte("ef")})
	o := NewSlotBuffer(Buffer{[]byte("gh")})
	s.CopyFrom(&o)
	fmt.Println(assigns, destroys, string(s.Buffer().data))

	s.MoveFrom(&o)
	fmt.Println(assigns, destroys, o.Tag())
}
