package engine

// stateKey identifies a (track, state) pair. Untracked nodes never get one.
type stateKey struct {
	track string
	state string
}

// resolver holds the per-build track state. Values are node indices into
// the pass arena; -1 means none.
type resolver struct {
	heads         map[string]int
	firstSeen     map[stateKey]int
	lastUntracked int
}

func newResolver() *resolver {
	return &resolver{
		heads:         make(map[string]int),
		firstSeen:     make(map[stateKey]int),
		lastUntracked: -1,
	}
}

// predecessor returns the node a tracked event should link from: the track
// head, or the last untracked node when the track has no history yet.
func (r *resolver) predecessor(track string) (int, bool) {
	if h, ok := r.heads[track]; ok {
		return h, true
	}
	if r.lastUntracked >= 0 {
		return r.lastUntracked, true
	}
	return -1, false
}

// untrackedPredecessor returns the last untracked node, if any.
func (r *resolver) untrackedPredecessor() (int, bool) {
	return r.lastUntracked, r.lastUntracked >= 0
}

// first returns the first node seen for (track, state).
func (r *resolver) first(track, state string) (int, bool) {
	i, ok := r.firstSeen[stateKey{track, state}]
	return i, ok
}

// advance makes idx the head of track and registers it as first-seen for
// (track, state) when the pair is new.
func (r *resolver) advance(track, state string, idx int) {
	r.heads[track] = idx
	key := stateKey{track, state}
	if _, ok := r.firstSeen[key]; !ok {
		r.firstSeen[key] = idx
	}
}

// resetHead points track back at an earlier live node after a fold.
func (r *resolver) resetHead(track string, idx int) {
	r.heads[track] = idx
}

// advanceUntracked records idx as the most recent untracked node.
func (r *resolver) advanceUntracked(idx int) {
	r.lastUntracked = idx
}

func (r *resolver) trackCount() int {
	return len(r.heads)
}
