// Package rng derives independent deterministic random sources.
//
// The model keeps one primary source for activation order and placement, and
// one derived source per agent for its lifetime draws. Deriving by hashing
// (run seed, agent id) makes each agent's draws reproducible regardless of
// how many values any other source has consumed, without ever reseeding a
// shared generator.
package rng

import "math/rand"

// Derive returns a source whose sequence depends only on (seed, id).
func Derive(seed int64, id uint64) *rand.Rand {
	h := mix(uint64(seed) ^ mix(id))
	return rand.New(rand.NewSource(int64(h)))
}

// Uniform draws from [lb, ub). With lb == ub it returns lb.
func Uniform(r *rand.Rand, lb, ub float64) float64 {
	return lb + r.Float64()*(ub-lb)
}

// mix is the splitmix64 finalizer, used here as a bit mixer so that nearby
// (seed, id) pairs yield unrelated sequences.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
