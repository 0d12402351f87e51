package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagFairness(t *testing.T) {
	bag := NewBag(42)
	const bags = 200

	counts := make(map[Kind]int)
	for i := 0; i < bags*NumKinds; i++ {
		counts[bag.Next()]++
		if (i+1)%NumKinds == 0 {
			for _, k := range AllKinds {
				require.Equal(t, (i+1)/NumKinds, counts[k], "kind %v after %d draws", k, i+1)
			}
		}
	}
}

func TestBagRefillsVary(t *testing.T) {
	bag := NewBag(7)
	const refills = 2000

	var prev [NumKinds]Kind
	repeats := 0
	for r := 0; r < refills; r++ {
		var cur [NumKinds]Kind
		for i := range cur {
			cur[i] = bag.Next()
		}
		if r > 0 && cur == prev {
			repeats++
		}
		prev = cur
	}
	// expected rate is 1/5040
	assert.Less(t, repeats, 10)
}

func TestBagSeedDeterminism(t *testing.T) {
	a, b := NewBag(99), NewBag(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Peek(), b.Peek())
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestBagPeekDoesNotConsume(t *testing.T) {
	bag := NewBag(1)
	k := bag.Peek()
	assert.Equal(t, NumKinds, bag.Len())
	assert.Equal(t, k, bag.Next())
	assert.Equal(t, NumKinds-1, bag.Len())
}
