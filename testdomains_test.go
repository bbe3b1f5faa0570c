package daedalus

// Fixture builders used across the test suite. Kept unexported and
// test-only: domain construction is not part of the package's public
// surface (see DESIGN.md).

// coinBoxLanguage returns the one-atom, two-agent language shared by the
// coin-in-the-box fixtures: atom "heads" (the coin shows heads), agents "a"
// and "b".
func coinBoxLanguage(t testingT) *Language {
	t.Helper()
	lang, err := NewLanguage([]string{"heads"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("coinBoxLanguage: %v", err)
	}
	return lang
}

// coinBoxInitial builds the classic two-world coin-in-the-box initial
// state: world 0 (heads) and world 1 (tails), indistinguishable to either
// agent (neither agent knows which it is); only world 0, the actual world,
// is designated.
func coinBoxInitial(t testingT, lang *Language, labelStore *LabelStore) *State {
	t.Helper()
	heads, _ := lang.AtomID("heads")

	l0 := NewBitset(lang.AtomsCount())
	l0.Set(int(heads))
	l1 := NewBitset(lang.AtomsCount())

	labels := []LabelID{labelStore.Intern(l0), labelStore.Intern(l1)}

	full := NewBitset(2)
	full.Set(0)
	full.Set(1)
	relation := [][]Bitset{
		{full, full}, // agent a: worlds 0 and 1 indistinguishable
		{full, full}, // agent b: same
	}

	designated := NewBitset(2)
	designated.Set(0)

	s, err := NewState(lang, 2, relation, labels, labelStore, designated)
	if err != nil {
		t.Fatalf("coinBoxInitial: %v", err)
	}
	return s
}

// coinBoxOpenBox builds the public-announcement action "open the box",
// revealing the coin's face to both agents: two events, one per possible
// face, each self-looped (common knowledge of the outcome once announced),
// no postcondition (the coin's face does not change, only knowledge of it).
func coinBoxOpenBox(t testingT, lang *Language) *Action {
	t.Helper()
	heads, _ := lang.AtomID("heads")

	eHeads := NewBitset(2)
	eHeads.Set(0)
	eTails := NewBitset(2)
	eTails.Set(1)

	relation := [][]Bitset{
		{eHeads, eTails}, // agent a learns the true outcome
		{eHeads, eTails}, // agent b learns the true outcome
	}
	precondition := []Formula{Atom(heads), Not(Atom(heads))}
	postcondition := []map[AtomID]Formula{{}, {}}

	designated := NewBitset(2)
	designated.Set(0)
	designated.Set(1)

	a, err := NewAction(lang, 2, relation, precondition, postcondition, designated, "open_box")
	if err != nil {
		t.Fatalf("coinBoxOpenBox: %v", err)
	}
	return a
}

// coinBoxFlip builds an ontic action that flips the coin unconditionally,
// a single event with a trivial precondition and a postcondition negating
// "heads".
func coinBoxFlip(t testingT, lang *Language) *Action {
	t.Helper()
	heads, _ := lang.AtomID("heads")

	self := NewBitset(1)
	self.Set(0)
	relation := [][]Bitset{{self}, {self}}
	precondition := []Formula{True()}
	postcondition := []map[AtomID]Formula{{heads: Not(Atom(heads))}}

	designated := NewBitset(1)
	designated.Set(0)

	a, err := NewAction(lang, 1, relation, precondition, postcondition, designated, "flip")
	if err != nil {
		t.Fatalf("coinBoxFlip: %v", err)
	}
	return a
}

// consecutiveNumbersLanguage builds the n=2 consecutive-numbers language:
// atoms a_has_0, a_has_1, b_has_0, b_has_1 encode which of two consecutive
// integers {0,1} each of two agents holds. Agents "a" and "b".
func consecutiveNumbersLanguage(t testingT) *Language {
	t.Helper()
	lang, err := NewLanguage([]string{"a_has_0", "a_has_1", "b_has_0", "b_has_1"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("consecutiveNumbersLanguage: %v", err)
	}
	return lang
}

// consecutiveNumbersInitial builds the two possible deals of {0,1} between
// two agents holding consecutive numbers: (a=0,b=1) and (a=1,b=0) are the
// only valid deals given the "consecutive" constraint for n=2. Both deals
// are designated, and neither agent can tell them apart.
func consecutiveNumbersInitial(t testingT, lang *Language, labelStore *LabelStore) *State {
	t.Helper()
	a0, _ := lang.AtomID("a_has_0")
	a1, _ := lang.AtomID("a_has_1")
	b0, _ := lang.AtomID("b_has_0")
	b1, _ := lang.AtomID("b_has_1")

	dealA0B1 := NewBitset(lang.AtomsCount())
	dealA0B1.Set(int(a0))
	dealA0B1.Set(int(b1))

	dealA1B0 := NewBitset(lang.AtomsCount())
	dealA1B0.Set(int(a1))
	dealA1B0.Set(int(b0))

	labels := []LabelID{labelStore.Intern(dealA0B1), labelStore.Intern(dealA1B0)}

	// Neither agent can see the other's number, so both deals stay mutually
	// indistinguishable to both agents — genuine uncertainty for the
	// planner to search over.
	full := NewBitset(2)
	full.Set(0)
	full.Set(1)
	relation := [][]Bitset{{full, full}, {full, full}}

	designated := NewBitset(2)
	designated.Set(0)
	designated.Set(1)

	s, err := NewState(lang, 2, relation, labels, labelStore, designated)
	if err != nil {
		t.Fatalf("consecutiveNumbersInitial: %v", err)
	}
	return s
}

// muddyChildrenLanguage builds the three-agent muddy-children language:
// atoms muddy_0, muddy_1, muddy_2 (child i has mud on its forehead), agents
// "child0", "child1", "child2".
func muddyChildrenLanguage(t testingT) *Language {
	t.Helper()
	lang, err := NewLanguage(
		[]string{"muddy_0", "muddy_1", "muddy_2"},
		[]string{"child0", "child1", "child2"},
	)
	if err != nil {
		t.Fatalf("muddyChildrenLanguage: %v", err)
	}
	return lang
}

// muddyChildrenInitial builds the standard 2-of-3-muddy initial state: all
// eight subsets of {0,1,2} are possible worlds, with each child unable to
// see its own forehead (so indistinguishable from the world in which only
// its own bit differs), actual world has children 0 and 1 muddy.
func muddyChildrenInitial(t testingT, lang *Language, labelStore *LabelStore) *State {
	t.Helper()
	worldCount := 8
	labels := make([]LabelID, worldCount)
	for w := 0; w < worldCount; w++ {
		l := NewBitset(lang.AtomsCount())
		for bit := 0; bit < 3; bit++ {
			if w&(1<<bit) != 0 {
				l.Set(bit)
			}
		}
		labels[w] = labelStore.Intern(l)
	}

	relation := make([][]Bitset, 3)
	for child := 0; child < 3; child++ {
		perWorld := make([]Bitset, worldCount)
		for w := 0; w < worldCount; w++ {
			bs := NewBitset(worldCount)
			bs.Set(w)
			bs.Set(w ^ (1 << uint(child)))
			perWorld[w] = bs
		}
		relation[child] = perWorld
	}

	designated := NewBitset(worldCount)
	designated.Set(0b011) // children 0 and 1 muddy, child 2 clean

	s, err := NewState(lang, worldCount, relation, labels, labelStore, designated)
	if err != nil {
		t.Fatalf("muddyChildrenInitial: %v", err)
	}
	return s
}

// testingT is the subset of *testing.T the fixture builders need, letting
// them run from both top-level tests and t.Run subtests without importing
// "testing" into files that don't otherwise need it.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}
