package verifier

import (
	"math"
	"math/rand/v2"
	"slices"

	"go.trai.ch/retest/internal/core/domain"
)

// Sample draws a stratified sample of tests. Every non-empty category contributes
// ceil(rate*size) tests, at least minPerCategory and at most all of them.
func Sample(tests []string, rate float64, minPerCategory int, rng *rand.Rand) ([]string, map[domain.TestCategory]int) {
	strata := make(map[domain.TestCategory][]string)
	for _, t := range tests {
		c := domain.CategoryOf(t)
		strata[c] = append(strata[c], t)
	}

	var sample []string
	counts := make(map[domain.TestCategory]int)
	for _, c := range domain.Categories {
		members := strata[c]
		if len(members) == 0 {
			continue
		}
		n := int(math.Ceil(rate * float64(len(members))))
		n = min(max(n, minPerCategory), len(members))

		for _, i := range rng.Perm(len(members))[:n] {
			sample = append(sample, members[i])
		}
		counts[c] = n
	}
	slices.Sort(sample)
	return sample, counts
}

// newRand returns a deterministic source for a non-zero seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
