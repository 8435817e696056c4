package selector

import "maia-engine/decode"

// Defaults for weak-player blending.
const (
	DefaultFloor  = 1100
	DefaultSpread = 600
)

// BlendWeight is the share of uniform noise mixed into the policy for a
// player rated trueSkill. It is 0 at or above floor and reaches 1 at
// floor-spread.
func BlendWeight(trueSkill, floor, spread float64) float64 {
	if !(trueSkill < floor) {
		return 0
	}
	if spread <= 0 {
		return 1
	}
	return min((floor-trueSkill)/spread, 1)
}

// Blend mixes policy with a uniform distribution over its moves:
// (1-t)*p + t/n. A t of 0 returns policy unchanged.
func Blend(policy decode.Policy, t float64) decode.Policy {
	if t <= 0 || len(policy) == 0 {
		return policy
	}
	t = min(t, 1)
	u := t / float64(len(policy))
	out := make(decode.Policy, len(policy))
	for mv, p := range policy {
		out[mv] = (1-t)*p + u
	}
	return out
}
