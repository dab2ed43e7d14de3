// Package idgen hands out identifiers for events and simulation runs.
//
// Events use a per-engine sequential generator so that IDs are reproducible
// from one run to the next. Runs and output files use xid, which is unique
// across processes and machines.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// ID is a unique identifier within one generator.
type ID uint64

// String formats the ID in decimal.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Generator produces unique identifiers.
type Generator interface {
	Generate() ID
}

// New returns a sequential generator whose first emitted ID is 1.
func New() Generator {
	return &sequentialGenerator{}
}

type sequentialGenerator struct {
	next uint64
}

func (g *sequentialGenerator) Generate() ID {
	return ID(atomic.AddUint64(&g.next, 1))
}

// NewXID returns a globally unique, sortable string ID.
func NewXID() string {
	return xid.New().String()
}
