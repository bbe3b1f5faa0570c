package daedalus

// partitionOf groups worlds by equal signature, assigning class ids in the
// order each signature value is first seen scanning world 0..n-1 — a
// deterministic canonicalization independent of the signature values
// themselves.
func partitionOf(sigs []SignatureID) (classOf []int, numClasses int) {
	classOf = make([]int, len(sigs))
	seen := make(map[SignatureID]int)
	for w, sig := range sigs {
		c, ok := seen[sig]
		if !ok {
			c = len(seen)
			seen[sig] = c
		}
		classOf[w] = c
	}
	return classOf, len(seen)
}

// samePartition reports whether a and b describe the same grouping of
// worlds into equivalence classes, irrespective of the specific class
// labels each assigns.
func samePartition(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	// Map each a-class to the b-class its first member belongs to, verify
	// every subsequent member agrees, and reject two a-classes that map to
	// the same b-class.
	mapping := make(map[int]int)
	taken := make(map[int]bool)
	for i := range a {
		bc, ok := mapping[a[i]]
		if !ok {
			if taken[b[i]] {
				return false
			}
			mapping[a[i]] = b[i]
			taken[b[i]] = true
			continue
		}
		if bc != b[i] {
			return false
		}
	}
	return true
}

// contractByPartition builds the quotient state under the given
// equivalence classes, picking the smallest original world id in each
// class as its representative. Relations and the designated set lift as
// images of the quotient projection.
func contractByPartition(s *State, classOf []int, numClasses int) *State {
	repOf := make([]WorldID, numClasses)
	haveRep := make([]bool, numClasses)
	for w, c := range classOf {
		if !haveRep[c] || WorldID(w) < repOf[c] {
			repOf[c] = WorldID(w)
			haveRep[c] = true
		}
	}

	labels := make([]LabelID, numClasses)
	for c, rep := range repOf {
		labels[c] = s.LabelOf(rep)
	}

	agentsCount := s.language.AgentsCount()
	relation := make([][]Bitset, agentsCount)
	for a := 0; a < agentsCount; a++ {
		perClass := make([]Bitset, numClasses)
		for c := range perClass {
			perClass[c] = NewBitset(numClasses)
		}
		for w := 0; w < s.worldCount; w++ {
			c := classOf[w]
			for _, u := range s.Successors(AgentID(a), WorldID(w)).Elements() {
				perClass[c].Set(classOf[u])
			}
		}
		relation[a] = perClass
	}

	designated := NewBitset(numClasses)
	for _, w := range s.DesignatedWorlds() {
		designated.Set(classOf[w])
	}

	quotient, err := NewState(s.language, numClasses, relation, labels, s.labelStore, designated)
	if err != nil {
		panic("daedalus: contractByPartition: built an invalid quotient state: " + err.Error())
	}
	return quotient
}

// ContractCanonical computes the k-bisimulation quotient of s via
// world-signature hashing: two worlds are k-bisimilar iff sig(·, k) ids
// match. Reports is_true_bisimulation: whether depth k sufficed to witness
// full bisimulation, i.e. the partition induced at level k equals the
// partition induced at level k+1 — the planner's iterative deepening uses
// this to decide when it may terminate soundly.
func ContractCanonical(s *State, k int, store *SignatureStore) (*State, bool) {
	if k < 0 {
		panic("daedalus: ContractCanonical: negative bound")
	}
	levels := store.Levels(s, k+1)
	classK, numK := partitionOf(levels[k])
	classK1, _ := partitionOf(levels[k+1])
	isTrue := samePartition(classK, classK1)
	return contractByPartition(s, classK, numK), isTrue
}

// ContractGlobal computes the classical (unbounded) bisimulation quotient
// via partition refinement on the full model, ignoring designated worlds
// for the partition but preserving them in the quotient. Refinement
// proceeds level by level using the same signature machinery as
// ContractCanonical, until two consecutive levels induce the same
// partition — a finite model's exact bisimulation partition always
// stabilizes within at most worldCount-1 refinement rounds.
func ContractGlobal(s *State, store *SignatureStore) *State {
	level := 0
	levels := store.Levels(s, level)
	classCur, numCur := partitionOf(levels[0])
	for level < s.worldCount {
		level++
		levels = append(levels, store.nextLevel(s, level, levels[level-1]))
		classNext, numNext := partitionOf(levels[level])
		if samePartition(classCur, classNext) {
			break
		}
		classCur, numCur = classNext, numNext
	}
	return contractByPartition(s, classCur, numCur)
}

// ContractRooted computes the bisimulation quotient restricted to the
// subgraph reachable from the designated worlds: worlds not reachable from
// any designated world are dropped before refinement.
func ContractRooted(s *State, store *SignatureStore) *State {
	restricted := restrictToReachable(s)
	return ContractGlobal(restricted, store)
}

// restrictToReachable builds the sub-model reachable from s's designated
// worlds across every agent's relation, renumbering worlds in BFS-visit
// order so world ids stay dense.
func restrictToReachable(s *State) *State {
	order := s.canonicalRenumbering()
	reachable := make([]bool, s.worldCount)
	// canonicalRenumbering visits exactly the worlds reachable from the
	// designated set first, in BFS order, then appends any unreachable
	// worlds afterward — so the reachable prefix is discoverable by
	// re-running the same BFS and stopping once the queue drains.
	queue := make([]WorldID, 0, len(order))
	for _, w := range s.DesignatedWorlds() {
		if !reachable[w] {
			reachable[w] = true
			queue = append(queue, w)
		}
	}
	for i := 0; i < len(queue); i++ {
		w := queue[i]
		for a := 0; a < s.language.AgentsCount(); a++ {
			for _, u := range s.Successors(AgentID(a), w).Elements() {
				if !reachable[u] {
					reachable[u] = true
					queue = append(queue, WorldID(u))
				}
			}
		}
	}

	newID := make([]int, s.worldCount)
	for i := range newID {
		newID[i] = -1
	}
	n := 0
	var kept []WorldID
	for _, w := range order {
		if reachable[w] {
			newID[w] = n
			n++
			kept = append(kept, w)
		}
	}

	labels := make([]LabelID, n)
	for i, w := range kept {
		labels[i] = s.LabelOf(w)
	}
	agentsCount := s.language.AgentsCount()
	relation := make([][]Bitset, agentsCount)
	for a := 0; a < agentsCount; a++ {
		perWorld := make([]Bitset, n)
		for i, w := range kept {
			bs := NewBitset(n)
			for _, u := range s.Successors(AgentID(a), w).Elements() {
				if nu := newID[u]; nu >= 0 {
					bs.Set(nu)
				}
			}
			perWorld[i] = bs
		}
		relation[a] = perWorld
	}
	designated := NewBitset(n)
	for _, w := range s.DesignatedWorlds() {
		designated.Set(newID[w])
	}

	restricted, err := NewState(s.language, n, relation, labels, s.labelStore, designated)
	if err != nil {
		panic("daedalus: restrictToReachable: built an invalid restricted state: " + err.Error())
	}
	return restricted
}
