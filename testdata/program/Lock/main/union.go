//go:build tagunion

package main

import (
	"sync"

	"github.com/sublee/tagunion"
)

type Counter struct {
	mu sync.Mutex
	n  int
}

// Cell cannot be copied or moved because Counter holds a mutex.
type Cell tagunion.Union[struct {
	Counter Counter
	Plain   int
}]
