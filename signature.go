package daedalus

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SignatureID is the stable identifier a SignatureStore assigns to a
// distinct world signature at a given depth. Two worlds — in the same
// state or in different states — receive the same SignatureID at level h
// iff their h-signatures are structurally identical; this is what lets the
// planner's state store detect isomorphic successors.
type SignatureID int

// SignatureStore is a two-level intern table: an inner table interning
// each agent's sorted neighbour-signature multiset, and an outer table
// interning (label, [inner_id]*agents) tuples into a SignatureID. Both
// tables are namespaced by depth level so that, e.g., a level-0 key can
// never collide with a level-3 key.
type SignatureStore struct {
	inner   map[string]int
	outer   map[string]SignatureID
	nextSig SignatureID
}

// NewSignatureStore constructs an empty signature store.
func NewSignatureStore() *SignatureStore {
	return &SignatureStore{inner: make(map[string]int), outer: make(map[string]SignatureID)}
}

func (st *SignatureStore) internInner(level, agent int, sortedNeighbourIDs []SignatureID) int {
	key := innerKey(level, agent, sortedNeighbourIDs)
	if id, ok := st.inner[key]; ok {
		return id
	}
	id := len(st.inner)
	st.inner[key] = id
	return id
}

func innerKey(level, agent int, ids []SignatureID) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(level))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(agent))
	b.WriteByte(':')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	return b.String()
}

func (st *SignatureStore) internOuter(level int, label LabelID, innerIDs []int) SignatureID {
	var b strings.Builder
	b.WriteString(strconv.Itoa(level))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(label)))
	b.WriteByte('|')
	for i, id := range innerIDs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	key := b.String()
	if id, ok := st.outer[key]; ok {
		return id
	}
	id := st.nextSig
	st.nextSig++
	st.outer[key] = id
	return id
}

// level0 computes sig(w, 0) = interned LabelID of w, for every world of s.
func (st *SignatureStore) level0(s *State) []SignatureID {
	sigs := make([]SignatureID, s.worldCount)
	for w := 0; w < s.worldCount; w++ {
		sigs[w] = st.internOuter(0, s.LabelOf(WorldID(w)), nil)
	}
	return sigs
}

// nextLevel computes sig(w, level) from sig(·, level-1):
// sig(w, h) = (label of w, for each agent i: sorted multiset of
// sig(w', h-1) for w' ∈ relation[i][w]). The label stands in for
// sig(w, h-1); both induce the same partition, since each level already
// refines the one before it.
func (st *SignatureStore) nextLevel(s *State, level int, prev []SignatureID) []SignatureID {
	agentsCount := s.language.AgentsCount()
	sigs := make([]SignatureID, s.worldCount)
	for w := 0; w < s.worldCount; w++ {
		innerIDs := make([]int, agentsCount)
		for a := 0; a < agentsCount; a++ {
			succs := s.Successors(AgentID(a), WorldID(w)).Elements()
			neighbourSigs := make([]SignatureID, len(succs))
			for i, u := range succs {
				neighbourSigs[i] = prev[u]
			}
			sort.Slice(neighbourSigs, func(i, j int) bool { return neighbourSigs[i] < neighbourSigs[j] })
			innerIDs[a] = st.internInner(level, a, neighbourSigs)
		}
		sigs[w] = st.internOuter(level, s.LabelOf(WorldID(w)), innerIDs)
	}
	return sigs
}

// Levels returns sig(w, h) for every world w and every level h in
// [0, upTo], one slice per level.
func (st *SignatureStore) Levels(s *State, upTo int) [][]SignatureID {
	if upTo < 0 {
		panic(fmt.Sprintf("daedalus: SignatureStore.Levels: negative bound %d", upTo))
	}
	out := make([][]SignatureID, upTo+1)
	out[0] = st.level0(s)
	for h := 1; h <= upTo; h++ {
		out[h] = st.nextLevel(s, h, out[h-1])
	}
	return out
}
