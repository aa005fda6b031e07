package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceGenerator_StrictlyIncreasing(t *testing.T) {
	// A frozen clock is the worst case: every call reads the same
	// millisecond.
	frozen := time.UnixMilli(1724830000000)
	g := NewReferenceGeneratorWithClock(func() time.Time { return frozen })

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := g.NextExternalReference()
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestReferenceGenerator_ExternalReferenceShape(t *testing.T) {
	g := NewReferenceGenerator()
	ref := g.NextExternalReference()

	assert.True(t, strings.HasPrefix(ref, "DH"))
	assert.Greater(t, len(ref), 10)
}

func TestReferenceGenerator_TransactionIDShape(t *testing.T) {
	g := NewReferenceGeneratorWithClock(func() time.Time { return time.UnixMilli(1724830012345) })
	id := g.NextTransactionID()

	assert.True(t, strings.HasPrefix(id, "DH"))
	assert.Len(t, id, 10) // "DH" + last 8 digits
	assert.Equal(t, "DH30012345", id)
}
