//go:build tagunion

package main

import "github.com/sublee/tagunion"

type Token tagunion.Union[struct {
	TOKEN_NUMBER float64
	TOKEN_IDENT  string `tagunion:"Name"`
	TOKEN_EOF    tagunion.Void
}]

var _ = tagunion.Options[Token](
	tagunion.TagType("Kind"),
	tagunion.TagPrefix("Kind"),
	tagunion.TrimCommonTagPrefix(),
	tagunion.NoPtrAccessors(),
)
