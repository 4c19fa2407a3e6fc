package model

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/talgya/schelling/internal/collect"
	"github.com/talgya/schelling/internal/config"
	"github.com/talgya/schelling/internal/grid"
	"github.com/talgya/schelling/internal/rng"
	"github.com/talgya/schelling/internal/schedule"
)

// Model drives the grid-wide simulation one tick at a time. Aggregation is
// owned here: agents report their satisfaction back from Decide and the model
// folds the results into Happy, Similarity, and the termination check.
type Model struct {
	cfg  config.Config
	seed int64

	rng       *rand.Rand
	grid      *grid.Torus
	sched     *schedule.RandomActivation
	collector *collect.Collector
	agents    map[uint64]*Agent

	// Nominal grid capacity density × width × height — the similarity
	// denominator. Fixed at setup; deliberately not the live agent count.
	capacity float64

	Tick       int
	Happy      int
	Similarity float64
	Running    bool
}

// New builds a model, populates the grid, and records the tick-0 snapshot.
func New(cfg config.Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := &Model{
		cfg:       cfg,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		grid:      grid.New(cfg.Width, cfg.Height),
		collector: collect.New(),
		agents:    make(map[uint64]*Agent),
		capacity:  cfg.Density * float64(cfg.Width) * float64(cfg.Height),
		Running:   true,
	}
	m.sched = schedule.New(m.rng)

	m.populate()
	m.snapshot()
	return m, nil
}

// populate walks every cell in row-major order and occupies it with
// probability density (optionally modulated by the cluster noise field).
// Each occupant's homophily threshold comes from its own derived source, so
// the draw for a given agent id is reproducible regardless of how many
// values the primary source has consumed.
func (m *Model) populate() {
	field := newDensityField(m.cfg, m.seed)

	var nextID uint64
	for y := 0; y < m.cfg.Height; y++ {
		for x := 0; x < m.cfg.Width; x++ {
			if m.rng.Float64() >= field.at(x, y) {
				continue
			}

			nextID++
			t := Majority
			if m.rng.Float64() < m.cfg.MinorityPC {
				t = Minority
			}

			a := &Agent{
				ID:        nextID,
				Type:      t,
				Homophily: rng.Uniform(rng.Derive(m.seed, nextID), m.cfg.HomophilyLB, m.cfg.HomophilyUB),
			}

			m.agents[a.ID] = a
			m.grid.Place(a.ID, x, y)
			m.sched.Add(a.ID)
		}
	}
}

// Step advances the simulation by exactly one tick: every agent is activated
// once in a fresh random order, then the aggregate metrics and the stopping
// condition are recomputed. A saturated grid aborts the tick with an error.
func (m *Model) Step() error {
	happy := 0

	err := m.sched.Step(func(id uint64) error {
		a := m.agents[id]

		neighbors := make([]*Agent, 0, 8)
		for _, nid := range m.grid.Neighbors(id, m.cfg.Radius) {
			neighbors = append(neighbors, m.agents[nid])
		}

		if !a.Decide(neighbors, m.cfg.Preference) {
			if err := m.grid.MoveToEmpty(id, m.rng); err != nil {
				return fmt.Errorf("relocate agent %d: %w", id, err)
			}
			return nil
		}
		happy++
		return nil
	})

	m.Tick++
	m.Happy = happy
	m.Similarity = m.calcSimilarity()
	m.snapshot()

	if err != nil {
		return err
	}

	if m.Happy == m.sched.Len() {
		m.Running = false
	}
	return nil
}

// calcSimilarity averages the raw similar-neighbor counts over the nominal
// grid capacity, rounded to two decimals.
func (m *Model) calcSimilarity() float64 {
	if m.capacity == 0 {
		return 0
	}
	sum := 0
	for _, a := range m.agents {
		sum += a.Similar
	}
	return math.Round(float64(sum)/m.capacity*100) / 100
}

// snapshot records the current model and agent metrics, tagged with the tick
// index, in agent creation order.
func (m *Model) snapshot() {
	rows := make([]collect.AgentRow, 0, m.sched.Len())
	for _, id := range m.sched.IDs() {
		a := m.agents[id]
		rows = append(rows, collect.AgentRow{
			Tick:             m.Tick,
			AgentID:          a.ID,
			Similar:          a.Similar,
			PerceivedSimilar: a.PerceivedSimilar(),
			Type:             int(a.Type),
		})
	}
	m.collector.Append(collect.ModelRow{
		Tick:       m.Tick,
		Happy:      m.Happy,
		Similarity: m.Similarity,
	}, rows)
}

// Seed returns the effective primary seed (resolved when cfg.Seed was 0).
func (m *Model) Seed() int64 { return m.seed }

// Config returns the construction parameters.
func (m *Model) Config() config.Config { return m.cfg }

// AgentCount returns the number of scheduled agents.
func (m *Model) AgentCount() int { return m.sched.Len() }

// Agents returns the agents in creation order.
func (m *Model) Agents() []*Agent {
	out := make([]*Agent, 0, m.sched.Len())
	for _, id := range m.sched.IDs() {
		out = append(out, m.agents[id])
	}
	return out
}

// NeighborsOf returns the occupied Moore neighborhood of an agent at the
// configured radius.
func (m *Model) NeighborsOf(id uint64) []*Agent {
	var out []*Agent
	for _, nid := range m.grid.Neighbors(id, m.cfg.Radius) {
		out = append(out, m.agents[nid])
	}
	return out
}

// Grid exposes the underlying torus.
func (m *Model) Grid() *grid.Torus { return m.grid }

// Collector exposes the snapshot log.
func (m *Model) Collector() *collect.Collector { return m.collector }
