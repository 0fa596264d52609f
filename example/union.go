//go:build tagunion

package main

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sublee/tagunion"
)

// Reply is the result of looking up an item.
type Reply tagunion.Union[struct {
	Found    *structpb.Struct
	Moved    string `tagunion:"Location"`
	NotFound tagunion.Void
}]

var _ = tagunion.Options[Reply](tagunion.NoPtrAccessors())
