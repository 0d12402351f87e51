package game

import (
	"math/rand"
)

// Bag produces pieces using the 7-bag randomizer: every run of seven draws
// since a refill contains each kind exactly once.
// When created with the same seed, two bags produce identical sequences.
type Bag struct {
	rng   *rand.Rand
	queue []Kind
}

// NewBag creates a seeded bag.
func NewBag(seed int64) *Bag {
	return &Bag{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next removes and returns the next kind, refilling when empty.
func (b *Bag) Next() Kind {
	if len(b.queue) == 0 {
		b.refill()
	}
	k := b.queue[0]
	b.queue = b.queue[1:]
	return k
}

// Peek returns the next kind without consuming it.
func (b *Bag) Peek() Kind {
	if len(b.queue) == 0 {
		b.refill()
	}
	return b.queue[0]
}

// Len is the number of kinds left before the next refill.
func (b *Bag) Len() int {
	return len(b.queue)
}

func (b *Bag) refill() {
	b.queue = append(b.queue[:0], AllKinds[:]...)
	// Fisher-Yates shuffle
	for i := len(b.queue) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		b.queue[i], b.queue[j] = b.queue[j], b.queue[i]
	}
}
