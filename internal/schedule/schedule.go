// Package schedule provides random-activation scheduling: every registered
// agent is activated exactly once per step, in a fresh random order each time.
package schedule

import "math/rand"

// RandomActivation activates agents in a per-step random permutation drawn
// from the model's primary random source. Registration order is preserved
// internally so a fixed seed reproduces the same activation sequences.
type RandomActivation struct {
	rng *rand.Rand
	ids []uint64
}

// New creates a scheduler drawing activation orders from rng.
func New(rng *rand.Rand) *RandomActivation {
	return &RandomActivation{rng: rng}
}

// Add registers an agent id for activation.
func (s *RandomActivation) Add(id uint64) {
	s.ids = append(s.ids, id)
}

// Len returns the number of scheduled agents.
func (s *RandomActivation) Len() int { return len(s.ids) }

// IDs returns the scheduled agent ids in registration order.
func (s *RandomActivation) IDs() []uint64 { return s.ids }

// Step activates every scheduled agent exactly once in a newly shuffled
// order. An error from an activation aborts the remainder of the step.
func (s *RandomActivation) Step(activate func(id uint64) error) error {
	order := make([]int, len(s.ids))
	for i := range order {
		order[i] = i
	}
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, i := range order {
		if err := activate(s.ids[i]); err != nil {
			return err
		}
	}
	return nil
}
