// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"strings"
	"time"
)

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with deterministic output.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Sample shuffles words in place and joins the first min(count, len(words))
// of them with single spaces. Words do not repeat within one sample.
func (g *Generator) Sample(words []string, count int) string {
	if count <= 0 || len(words) == 0 {
		return ""
	}
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if count > len(words) {
		count = len(words)
	}
	return strings.TrimSpace(strings.Join(words[:count], " "))
}
