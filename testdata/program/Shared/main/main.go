package main

import (
	"fmt"
	"slices"
)

type Packet struct{ Data []byte }

func (p Packet) Clone() Packet { return Packet{slices.Clone(p.Data)} }

type Frame struct{ Data []byte }

func main() {
	m := NewMsgPkt(Packet{[]byte("ab")})
	c := m.Clone()
	c.PktPtr().Data[0] = 'x'
	fmt.Println(string(m.Pkt().Data), string(c.Pkt().Data))

	m.SetBuf([]byte("ab"))
	c = m.Clone()
	(*c.BufPtr())[1] = 'y'
	fmt.Println(string(m.Buf()), string(c.Buf()))

	var w any = &Wire{}
	_, cloner := w.(interface{ Clone() Wire })
	_, taker := w.(interface{ Take() Wire })
	fmt.Println(cloner, taker)
}
