package services

import (
	"strconv"
	"sync"
	"time"
)

// ReferenceGenerator issues DH-prefixed identifiers derived from the
// millisecond clock. The clock reading is forced strictly increasing, so
// two calls in the same millisecond still produce distinct values.
type ReferenceGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewReferenceGenerator creates a generator on the system clock
func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{now: time.Now}
}

// NewReferenceGeneratorWithClock creates a generator on a supplied clock.
// Used in tests.
func NewReferenceGeneratorWithClock(now func() time.Time) *ReferenceGenerator {
	return &ReferenceGenerator{now: now}
}

func (g *ReferenceGenerator) next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return ms
}

// NextExternalReference returns a per-call charge reference for the
// payment provider, e.g. "DH1724830000000". Fresh per attempt, not per
// logical order.
func (g *ReferenceGenerator) NextExternalReference() string {
	return "DH" + strconv.FormatInt(g.next(), 10)
}

// NextTransactionID returns a customer-facing transaction ID: "DH" plus
// the last 8 digits of the millisecond clock.
func (g *ReferenceGenerator) NextTransactionID() string {
	s := strconv.FormatInt(g.next(), 10)
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return "DH" + s
}
