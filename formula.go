package daedalus

// Formula is a recursive modal-formula tree node. Formulas are immutable
// and shared by many owners (domain builders and the planner reuse goal and
// precondition subtrees freely), each carrying a cached ModalDepth computed
// at construction.
//
// The variant set — True, False, Atom, Not, And, Or, Box, Diamond — is
// closed; modeled as a tagged Go interface implemented by unexported
// structs and dispatched with a type switch in holdsIn. Box/Diamond only
// consult the direct relation, never paths, so no fixed-point loop is
// needed to evaluate a formula at a world.
type Formula interface {
	// ModalDepth returns 0 for purely propositional formulas, else
	// 1 + the maximum modal depth of any child reached through a Box or
	// Diamond.
	ModalDepth() int
	holdsIn(s *State, w WorldID) bool
	isFormula()
}

type formTrue struct{}
type formFalse struct{}

type formAtom struct{ atom AtomID }

type formNot struct {
	child Formula
	depth int
}

type formAnd struct {
	children []Formula
	depth    int
}

type formOr struct {
	children []Formula
	depth    int
}

type formBox struct {
	agent AgentID
	child Formula
	depth int
}

type formDiamond struct {
	agent AgentID
	child Formula
	depth int
}

func (formTrue) isFormula()    {}
func (formFalse) isFormula()   {}
func (formAtom) isFormula()    {}
func (formNot) isFormula()     {}
func (formAnd) isFormula()     {}
func (formOr) isFormula()      {}
func (formBox) isFormula()     {}
func (formDiamond) isFormula() {}

func (formTrue) ModalDepth() int    { return 0 }
func (formFalse) ModalDepth() int   { return 0 }
func (formAtom) ModalDepth() int    { return 0 }
func (f formNot) ModalDepth() int   { return f.depth }
func (f formAnd) ModalDepth() int   { return f.depth }
func (f formOr) ModalDepth() int    { return f.depth }
func (f formBox) ModalDepth() int   { return f.depth }
func (f formDiamond) ModalDepth() int { return f.depth }

// True is the formula that holds everywhere.
func True() Formula { return formTrue{} }

// False is the formula that never holds.
func False() Formula { return formFalse{} }

// Atom constructs an atomic-proposition formula.
func Atom(a AtomID) Formula { return formAtom{atom: a} }

// Not constructs a negation.
func Not(f Formula) Formula { return formNot{child: f, depth: f.ModalDepth()} }

// And constructs a (left-to-right, short-circuiting) conjunction over one
// or more children.
func And(fs ...Formula) Formula {
	return formAnd{children: fs, depth: maxChildDepth(fs)}
}

// Or constructs a (left-to-right, short-circuiting) disjunction over one or
// more children.
func Or(fs ...Formula) Formula {
	return formOr{children: fs, depth: maxChildDepth(fs)}
}

// Box constructs "agent i knows/believes child":
// holds_in(Box(i, φ), s, w) = ∀ w' ∈ relation[i][w]. holds_in(φ, s, w').
func Box(i AgentID, child Formula) Formula {
	return formBox{agent: i, child: child, depth: child.ModalDepth() + 1}
}

// Diamond constructs "agent i considers child possible":
// holds_in(Diamond(i, φ), s, w) = ∃ w' ∈ relation[i][w]. holds_in(φ, s, w').
func Diamond(i AgentID, child Formula) Formula {
	return formDiamond{agent: i, child: child, depth: child.ModalDepth() + 1}
}

func maxChildDepth(fs []Formula) int {
	max := 0
	for _, f := range fs {
		if d := f.ModalDepth(); d > max {
			max = d
		}
	}
	return max
}

func (formTrue) holdsIn(*State, WorldID) bool  { return true }
func (formFalse) holdsIn(*State, WorldID) bool { return false }

func (f formAtom) holdsIn(s *State, w WorldID) bool {
	return s.HasLabel(w, f.atom)
}

func (f formNot) holdsIn(s *State, w WorldID) bool {
	return !HoldsIn(f.child, s, w)
}

func (f formAnd) holdsIn(s *State, w WorldID) bool {
	for _, c := range f.children {
		if !HoldsIn(c, s, w) {
			return false
		}
	}
	return true
}

func (f formOr) holdsIn(s *State, w WorldID) bool {
	for _, c := range f.children {
		if HoldsIn(c, s, w) {
			return true
		}
	}
	return false
}

func (f formBox) holdsIn(s *State, w WorldID) bool {
	for _, u := range s.Successors(f.agent, w).Elements() {
		if !HoldsIn(f.child, s, WorldID(u)) {
			return false
		}
	}
	return true
}

func (f formDiamond) holdsIn(s *State, w WorldID) bool {
	for _, u := range s.Successors(f.agent, w).Elements() {
		if HoldsIn(f.child, s, WorldID(u)) {
			return true
		}
	}
	return false
}

// HoldsIn evaluates φ at world w of state s. Pure, total, and terminating
// on every finite Kripke model.
func HoldsIn(phi Formula, s *State, w WorldID) bool {
	return phi.holdsIn(s, w)
}

// Satisfies reports whether s satisfies φ: φ holds in every designated
// world of s.
func Satisfies(s *State, phi Formula) bool {
	for _, w := range s.DesignatedWorlds() {
		if !HoldsIn(phi, s, w) {
			return false
		}
	}
	return true
}
