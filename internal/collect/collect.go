// Package collect accumulates per-tick model and agent metric snapshots.
// Collection is reporting only; nothing in the simulation reads it back.
package collect

// ModelRow is one model-level snapshot.
type ModelRow struct {
	Tick       int     `json:"tick" db:"tick"`
	Happy      int     `json:"happy" db:"happy"`
	Similarity float64 `json:"similarity" db:"similarity"`
}

// AgentRow is one agent-level snapshot.
type AgentRow struct {
	Tick             int     `json:"tick" db:"tick"`
	AgentID          uint64  `json:"agent_id" db:"agent_id"`
	Similar          int     `json:"similar" db:"similar"`
	PerceivedSimilar float64 `json:"perceived_similar" db:"perceived_similar"`
	Type             int     `json:"type" db:"agent_type"`
}

// Collector holds the snapshot log for one run.
type Collector struct {
	models []ModelRow
	agents []AgentRow
}

// New creates an empty collector.
func New() *Collector {
	return &Collector{}
}

// Append records one tick's model snapshot and its agent rows.
func (c *Collector) Append(m ModelRow, rows []AgentRow) {
	c.models = append(c.models, m)
	c.agents = append(c.agents, rows...)
}

// ModelRows returns all model snapshots in collection order.
func (c *Collector) ModelRows() []ModelRow { return c.models }

// AgentRows returns all agent snapshots in collection order.
func (c *Collector) AgentRows() []AgentRow { return c.agents }

// LastModelRow returns the most recent model snapshot, if any.
func (c *Collector) LastModelRow() (ModelRow, bool) {
	if len(c.models) == 0 {
		return ModelRow{}, false
	}
	return c.models[len(c.models)-1], true
}
