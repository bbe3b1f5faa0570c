package daedalus

// Update computes the product update of state s with action a: a pair
// (w, e) ∈ W × E survives into the successor state iff holds_in(pre(e), s,
// w). Pairs are enumerated world-major, event-minor, so that successor
// world ids are assigned deterministically.
//
// Folds each (world, event) pair whose precondition holds into a fresh
// world of the product state: enumerate candidate pairs, filter by
// precondition, build a fresh immutable successor from the survivors.
//
// Returns (successor, true) if at least one designated pair survives, or
// (nil, false) if none does; the action is then blocked in state s and the
// caller (the planner) treats it as such, not as an error.
func Update(s *State, a *Action, labelStore *LabelStore) (*State, bool) {
	if s.language != a.language {
		// Caller bug: states and actions in a single planning task always
		// share one Language. Not a caller-triggerable input error, so this
		// asserts rather than returning a *ValidationError.
		panic("daedalus: Update: state and action do not share a language")
	}

	type pair struct {
		w WorldID
		e EventID
	}

	var pairs []pair
	pairIndex := make(map[pair]int)
	for w := WorldID(0); int(w) < s.worldCount; w++ {
		for e := EventID(0); int(e) < a.eventCount; e++ {
			if HoldsIn(a.Precondition(e), s, w) {
				pairIndex[pair{w, e}] = len(pairs)
				pairs = append(pairs, pair{w, e})
			}
		}
	}
	if len(pairs) == 0 {
		return nil, false
	}

	n := len(pairs)
	labels := make([]LabelID, n)
	for i, p := range pairs {
		labels[i] = deriveLabel(s, a, p.w, p.e, labelStore)
	}

	agentsCount := s.language.AgentsCount()
	relation := make([][]Bitset, agentsCount)
	for ag := 0; ag < agentsCount; ag++ {
		agent := AgentID(ag)
		perWorld := make([]Bitset, n)
		for i, p := range pairs {
			bs := NewBitset(n)
			wSuccs := s.Successors(agent, p.w)
			eSuccs := a.EventSuccessors(agent, p.e)
			for j, q := range pairs {
				if wSuccs.Test(int(q.w)) && eSuccs.Test(int(q.e)) {
					bs.Set(j)
				}
			}
			perWorld[i] = bs
		}
		relation[ag] = perWorld
	}

	designatedW := s.Designated()
	designatedE := a.Designated()
	designated := NewBitset(n)
	for i, p := range pairs {
		if designatedW.Test(int(p.w)) && designatedE.Test(int(p.e)) {
			designated.Set(i)
		}
	}
	if designated.IsEmpty() {
		return nil, false
	}

	successor, err := NewState(s.language, n, relation, labels, labelStore, designated)
	if err != nil {
		// Construction from internally-derived, already-validated data
		// cannot fail; a failure here is a programming bug.
		panic("daedalus: Update: built an invalid successor state: " + err.Error())
	}
	return successor, true
}

// deriveLabel computes the label of surviving pair (w, e): each atom in
// post(e)'s domain is overridden to holds_in(post(e)[atom], s, w); atoms not
// in the domain are carried over unchanged from labels[w].
func deriveLabel(s *State, a *Action, w WorldID, e EventID, labelStore *LabelStore) LabelID {
	base := labelStore.Lookup(s.LabelOf(w))
	out := base.Clone()
	for atom, f := range a.Postcondition(e) {
		if HoldsIn(f, s, w) {
			out.Set(int(atom))
		} else {
			out.Clear(int(atom))
		}
	}
	return labelStore.Intern(out)
}
