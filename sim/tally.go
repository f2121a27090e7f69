package sim

// Tally accumulates per-node diagnostics over the trials of one chain:
// requests served (load, including retries) and retries issued.
// Index 0 is the bottom node. Not safe for concurrent use.
type Tally struct {
	loads   []int64
	retries []int64
}

// NewTally returns a zeroed Tally for a chain of the given depth.
func NewTally(depth int) *Tally {
	return &Tally{loads: make([]int64, depth), retries: make([]int64, depth)}
}

// Load returns the number of requests node i has served.
func (t *Tally) Load(i int) int64 { return t.loads[i] }

// Retries returns the number of retries node i has issued to its dependency.
func (t *Tally) Retries(i int) int64 { return t.retries[i] }

// BottomLoad returns the load of the deepest node.
func (t *Tally) BottomLoad() int64 { return t.loads[0] }

// Loads returns a copy of all per-node loads, bottom first.
func (t *Tally) Loads() []int64 { return append([]int64(nil), t.loads...) }
