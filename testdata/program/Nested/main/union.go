//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Inner tagunion.Union[struct {
	Num  int
	Text string
}]

type Outer tagunion.Union[struct {
	Inner Inner
	Flag  bool
}]
