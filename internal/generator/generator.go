// Package generator builds practice word sequences.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces word sequences for a practice run.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Sequence returns the words for one run. Unless ordered is set, the
// words are shuffled into a uniform random permutation. A positive
// limit caps the sequence length; zero or negative means no cap.
func (g *Generator) Sequence(words []string, limit int, ordered bool) []string {
	seq := make([]string, len(words))
	copy(seq, words)
	if !ordered {
		g.rnd.Shuffle(len(seq), func(i, j int) {
			seq[i], seq[j] = seq[j], seq[i]
		})
	}
	if limit > 0 && limit < len(seq) {
		seq = seq[:limit]
	}
	return seq
}
