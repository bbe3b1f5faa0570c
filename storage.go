package daedalus

import (
	"sort"
	"strconv"
	"strings"
)

// StateKey is the identifier a StateStore assigns to a distinct state. Two
// states receive the same StateKey iff they are structurally identical
// under canonical world renumbering: same world count, same
// canonically-renumbered labels, relations, and designated set. This is
// what lets the planner's closed set recognize that two different action
// sequences reached the same epistemic state.
type StateKey int

// StateStore interns states by structural equality, used by the planner as
// the closed set of a breadth-first/iterative-deepening search. The
// membership table is keyed on a canonicalized encoding of the whole
// state, not just a single world id, so states that differ only by a
// renumbering of worlds collapse to one entry whenever canonicalRenumbering
// visits their worlds in corresponding order. canonicalRenumbering breaks
// ties by original world id, so isomorphic states whose numberings change
// those tie-breaks can still receive distinct keys.
type StateStore struct {
	byKey  map[string]StateKey
	states []*State
}

// NewStateStore constructs an empty state store.
func NewStateStore() *StateStore {
	return &StateStore{byKey: make(map[string]StateKey)}
}

// Intern returns the StateKey of s, assigning a fresh key the first time a
// structurally distinct state is seen. The second return value reports
// whether s was already present.
func (st *StateStore) Intern(s *State) (StateKey, bool) {
	key := stateKey(s)
	if k, ok := st.byKey[key]; ok {
		return k, true
	}
	k := StateKey(len(st.states))
	st.byKey[key] = k
	st.states = append(st.states, s)
	return k, false
}

// Lookup returns the state previously interned under k.
func (st *StateStore) Lookup(k StateKey) *State {
	return st.states[k]
}

// Len returns the number of distinct states interned so far.
func (st *StateStore) Len() int { return len(st.states) }

// stateKey builds the canonical structural encoding of s: worlds are
// visited in canonicalRenumbering order, so two states whose worlds map onto
// each other position by position under that order, with the same labels,
// relations and designated set, produce identical keys.
func stateKey(s *State) string {
	order := s.canonicalRenumbering()
	rank := make([]int, s.worldCount)
	for newID, w := range order {
		rank[w] = newID
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(s.worldCount))
	b.WriteByte(';')

	for _, w := range order {
		b.WriteString(strconv.Itoa(int(s.LabelOf(w))))
		b.WriteByte(',')
	}
	b.WriteByte(';')

	agentsCount := s.language.AgentsCount()
	for a := 0; a < agentsCount; a++ {
		for _, w := range order {
			succs := s.Successors(AgentID(a), w).Elements()
			renumbered := make([]int, len(succs))
			for i, u := range succs {
				renumbered[i] = rank[u]
			}
			// Successors come in ascending original-id order, which need
			// not be ascending rank order, so the ranks are sorted to make
			// the encoding depend only on the renumbered successor set.
			sort.Ints(renumbered)
			for _, r := range renumbered {
				b.WriteString(strconv.Itoa(r))
				b.WriteByte(',')
			}
			b.WriteByte('|')
		}
		b.WriteByte(';')
	}

	designatedRanks := make([]int, 0, len(s.DesignatedWorlds()))
	for _, w := range s.DesignatedWorlds() {
		designatedRanks = append(designatedRanks, rank[w])
	}
	for _, r := range designatedRanks {
		b.WriteString(strconv.Itoa(r))
		b.WriteByte(',')
	}
	return b.String()
}

// Storages bundles the three interning tables a planning run shares across
// every state it builds: labels, structural states, and bisimulation
// signatures. A fresh Storages is created per Search call, never held as a
// process-lifetime singleton.
type Storages struct {
	Labels     *LabelStore
	States     *StateStore
	Signatures *SignatureStore
}

// NewStorages constructs a fresh, empty Storages bundle.
func NewStorages() *Storages {
	return &Storages{
		Labels:     NewLabelStore(),
		States:     NewStateStore(),
		Signatures: NewSignatureStore(),
	}
}
