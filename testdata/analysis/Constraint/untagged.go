package testdata

import "github.com/sublee/tagunion" // want `file must have "//go:build tagunion" constraint when importing tagunion`

var _ = tagunion.Void{}
