// Package randutil derives reproducible math/rand/v2 generators from a
// single int64 seed.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Stream returns the generator for one numbered stream under seed. Each
// game or worker takes its own stream, so its cards do not depend on how
// many goroutines run alongside it.
func Stream(seed int64, stream uint64) *rand.Rand {
	u := uint64(seed)
	s := mix(stream + goldenRatio64)
	return rand.New(rand.NewPCG(mix(u^s), mix(u+goldenRatio64*(stream+2))))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
