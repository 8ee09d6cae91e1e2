package services

import (
	"fmt"
	"math/rand"
	"strings"

	"trace-quest-engine/utils"
)

// ChoiceCount is the fixed size of every displayed option set.
const ChoiceCount = 4

// BuildChoices turns a correct answer plus a candidate pool into exactly four
// display options. The answer appears exactly once; candidates are drawn from
// the pool in randomized order, skipping blanks and case-insensitive
// duplicates; synthetic "Option N" fillers pad an exhausted pool. The final
// four are shuffled, so the answer position carries no signal.
func BuildChoices(rng *rand.Rand, answer string, pool []string) []string {
	choices := []string{strings.TrimSpace(answer)}
	seen := map[string]bool{utils.NormalizeAnswer(answer): true}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, candidate := range shuffled {
		if len(choices) == ChoiceCount {
			break
		}
		candidate = strings.TrimSpace(candidate)
		key := utils.NormalizeAnswer(candidate)
		if candidate == "" || seen[key] {
			continue
		}
		seen[key] = true
		choices = append(choices, candidate)
	}

	for n := 1; len(choices) < ChoiceCount; n++ {
		filler := fmt.Sprintf("Option %d", n)
		key := utils.NormalizeAnswer(filler)
		if seen[key] {
			continue
		}
		seen[key] = true
		choices = append(choices, filler)
	}

	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
