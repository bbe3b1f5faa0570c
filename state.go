package daedalus

import "sort"

// WorldID is a dense, 0-based identifier for a world, local to the State
// that contains it.
type WorldID int

// State is a pointed multi-agent Kripke model: worlds, per-agent
// accessibility, labels, and a designated subset of worlds representing the
// actual situation. States are immutable once constructed; every
// transformation (product update, bisimulation contraction) produces a
// fresh State.
//
// relation[agent][world] is a bitset over worlds rather than a linear event
// queue, so accessibility and its refinements stay cheap to intersect and
// compare at the scale this package targets.
type State struct {
	language   *Language
	worldCount int
	relation   [][]Bitset // relation[agent][world] = successors, width worldCount
	labels     []LabelID  // labels[world]
	labelStore *LabelStore
	designated Bitset // over worlds
}

// NewState validates and constructs a Kripke state:
//
//   - len(relation) == language.AgentsCount(), every inner bitset has width
//     worldCount.
//   - len(labels) == worldCount.
//   - designated is a non-empty subset of {0..worldCount-1}.
func NewState(language *Language, worldCount int, relation [][]Bitset, labels []LabelID, labelStore *LabelStore, designated Bitset) (*State, error) {
	if len(relation) != language.AgentsCount() {
		return nil, &ValidationError{Field: "relation", Reason: "relation must have one entry per agent", Err: ErrSizeMismatch}
	}
	for a, perWorld := range relation {
		if len(perWorld) != worldCount {
			return nil, &ValidationError{Field: "relation", Reason: "agent relation must have one bitset per world", Err: ErrSizeMismatch}
		}
		for w, bs := range perWorld {
			if bs.Width() != worldCount {
				return nil, &ValidationError{Field: "relation", Reason: "accessibility bitset width must equal worldCount", Err: ErrSizeMismatch}
			}
			_ = a
			_ = w
		}
	}
	if len(labels) != worldCount {
		return nil, &ValidationError{Field: "labels", Reason: "labels must have one entry per world", Err: ErrSizeMismatch}
	}
	if designated.Width() != worldCount {
		return nil, &ValidationError{Field: "designated", Reason: "designated bitset width must equal worldCount", Err: ErrSizeMismatch}
	}
	if designated.IsEmpty() {
		return nil, &ValidationError{Field: "designated", Reason: "designated set must contain at least one world", Err: ErrEmptyDesignated}
	}
	for _, w := range designated.Elements() {
		if w < 0 || w >= worldCount {
			return nil, &ValidationError{Field: "designated", Reason: "designated world id out of range", Err: ErrDesignatedRange}
		}
	}

	relCopy := make([][]Bitset, len(relation))
	for a, perWorld := range relation {
		cp := make([]Bitset, len(perWorld))
		for w, bs := range perWorld {
			cp[w] = bs.Clone()
		}
		relCopy[a] = cp
	}
	labelsCopy := append([]LabelID(nil), labels...)

	return &State{
		language:   language,
		worldCount: worldCount,
		relation:   relCopy,
		labels:     labelsCopy,
		labelStore: labelStore,
		designated: designated.Clone(),
	}, nil
}

// Language returns the state's shared name registry.
func (s *State) Language() *Language { return s.language }

// GetWorldsNumber returns the number of worlds in the state.
func (s *State) GetWorldsNumber() int { return s.worldCount }

// Designated returns the bitset of designated worlds.
func (s *State) Designated() Bitset { return s.designated }

// Successors returns the bitset of worlds agent i considers possible from
// world w.
func (s *State) Successors(agent AgentID, w WorldID) Bitset {
	return s.relation[agent][w]
}

// LabelOf returns the interned LabelID of world w.
func (s *State) LabelOf(w WorldID) LabelID {
	return s.labels[w]
}

// HasLabel reports whether atom holds in the valuation of world w.
func (s *State) HasLabel(w WorldID, atom AtomID) bool {
	return s.labelStore.Lookup(s.labels[w]).Test(int(atom))
}

// Satisfies reports whether φ holds in every designated world of s.
func (s *State) Satisfies(phi Formula) bool {
	return Satisfies(s, phi)
}

// DesignatedWorlds returns the designated worlds as a sorted slice.
func (s *State) DesignatedWorlds() []WorldID {
	elems := s.designated.Elements()
	out := make([]WorldID, len(elems))
	for i, e := range elems {
		out[i] = WorldID(e)
	}
	return out
}

// canonicalRenumbering computes a deterministic world-id renumbering:
// a BFS starting from the sorted designated worlds, visiting each world's
// agent-successors in ascending (agent, original world id) order, followed
// by any worlds unreachable from the designated set in their original id
// order. Used by StateStore to build a structural dedup key. Ties are
// broken by original world id, so the resulting order is not invariant
// under every renumbering of the worlds.
func (s *State) canonicalRenumbering() []WorldID {
	canon := make([]WorldID, 0, s.worldCount)
	seen := make([]bool, s.worldCount)

	var queue []WorldID
	for _, w := range s.DesignatedWorlds() {
		if !seen[w] {
			seen[w] = true
			queue = append(queue, w)
			canon = append(canon, w)
		}
	}
	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		for a := 0; a < s.language.AgentsCount(); a++ {
			succs := s.Successors(AgentID(a), w).Elements()
			sort.Ints(succs)
			for _, u := range succs {
				if !seen[u] {
					seen[u] = true
					queue = append(queue, WorldID(u))
					canon = append(canon, WorldID(u))
				}
			}
		}
	}
	for w := 0; w < s.worldCount; w++ {
		if !seen[w] {
			canon = append(canon, WorldID(w))
		}
	}
	return canon
}
