package engine

import (
	"math/rand"
	"strings"
)

// battleContext accumulates the per-round log of a single battle.
type battleContext struct {
	rng     *rand.Rand
	round   int
	summary []string
}

func newBattleContext(rng *rand.Rand) *battleContext {
	return &battleContext{rng: rng, summary: make([]string, 0, 2*MaxBattleRounds+1)}
}

func (bc *battleContext) add(msg string) { bc.summary = append(bc.summary, msg) }

// joinSummary returns the accumulated summary as a single string.
func (bc *battleContext) joinSummary() string {
	return strings.Join(bc.summary, "\n")
}
