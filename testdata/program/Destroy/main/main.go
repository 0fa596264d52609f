package main

import (
	"errors"
	"fmt"
)

var log []string

type Handle struct{ name string }

func (h *Handle) Close() error {
	log = append(log, "close "+h.name)
	if h.name == "bad" {
		return errors.New("bad handle")
	}
	return nil
}

func main() {
	r := NewResourceHandle(Handle{"a"})
	err := r.SetCode(1)
	fmt.Println(err, log)

	err = r.SetHandle(Handle{"bad"})
	fmt.Println(err, r.Tag())

	err = r.Destroy()
	fmt.Println(err, r.Tag(), log)

	err = r.Destroy()
	fmt.Println(err)
}
