//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Msg tagunion.Union[struct {
	Raw tagunion.Void
	Pkt Packet
	Buf []byte
}]

type Wire tagunion.Union[struct {
	Frame Frame
	Nil   tagunion.Void
}]
