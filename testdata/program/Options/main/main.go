package main

import "fmt"

func describe(t *Token) string {
	switch t.Tag() {
	case KindNumber:
		return fmt.Sprint(t.Tag(), " ", t.Number())
	case KindIdent:
		return fmt.Sprint(t.Tag(), " ", t.Name())
	case KindUnset:
		return "unset"
	}
	return t.Tag().String()
}

func main() {
	var t Token
	fmt.Println(describe(&t))

	t = NewTokenNumber(1.5)
	fmt.Println(describe(&t))

	t.SetIdent("x")
	fmt.Println(describe(&t))

	t.SetEof()
	fmt.Println(describe(&t))
}
