package daedalus

import "fmt"

// PlanningTask bundles everything a search needs: the initial state, the
// available actions, and the goal formula. maximumDepth caches the largest
// action.MaximumDepth() across Actions, used to seed iterative bounded
// deepening.
type PlanningTask struct {
	DomainName   string
	ProblemID    string
	Language     *Language
	Initial      *State
	Actions      []*Action
	Goal         Formula
	maximumDepth int
}

// NewPlanningTask validates and constructs a planning task. Every action
// must share the task's language with Initial; actions are kept in the
// given order, since the planner enumerates them in that same insertion
// order for determinism.
func NewPlanningTask(domainName, problemID string, language *Language, initial *State, actions []*Action, goal Formula) (*PlanningTask, error) {
	if initial.Language() != language {
		return nil, &ValidationError{Field: "initial", Reason: "initial state must share the task language", Err: ErrLanguageMismatch}
	}
	if len(actions) == 0 {
		return nil, &ValidationError{Field: "actions", Reason: "at least one action is required", Err: ErrNoActions}
	}
	maxDepth := 0
	for i, a := range actions {
		if a.Language() != language {
			return nil, &ValidationError{Field: fmt.Sprintf("actions[%d]", i), Reason: "action must share the task language", Err: ErrLanguageMismatch}
		}
		if a.MaximumDepth() > maxDepth {
			maxDepth = a.MaximumDepth()
		}
	}
	return &PlanningTask{
		DomainName:   domainName,
		ProblemID:    problemID,
		Language:     language,
		Initial:      initial,
		Actions:      append([]*Action(nil), actions...),
		Goal:         goal,
		maximumDepth: maxDepth,
	}, nil
}

// ActionRef names one step of a Plan: the index into the task's Actions
// slice that produced it.
type ActionRef struct {
	ActionIndex int
	ActionName  string
}

// Plan is an ordered sequence of actions leading from the task's initial
// state to a state satisfying the goal.
type Plan struct {
	Steps []ActionRef
}

// Length returns the number of steps in the plan.
func (p Plan) Length() int { return len(p.Steps) }

// OutcomeKind is the closed discriminant a search produces: exactly one of
// Found, NoPlan, or Unknown holds, reported by Kind.
type OutcomeKind int

const (
	// OutcomeFound means Plan holds a witness sequence reaching the goal.
	OutcomeFound OutcomeKind = iota
	// OutcomeNoPlan means the search proved no plan exists (only reachable
	// via full/rooted/canonical contraction establishing a closed,
	// goal-free reachable set, or canonical contraction's
	// is_true_bisimulation flag licensing early termination).
	OutcomeNoPlan
	// OutcomeUnknown means a depth-bounded search exhausted its bound
	// without finding a goal state and without proving none exists.
	OutcomeUnknown
)

// PlanOutcome is the result of a Search call.
type PlanOutcome struct {
	Kind OutcomeKind
	Plan Plan
}

// ContractionMode names a bisimulation contraction. contract applies the
// named contraction to a state; Search uses the mode only to pick a
// strategy (see Search).
type ContractionMode int

const (
	// ContractionNone applies no contraction: contract returns the state
	// unchanged.
	ContractionNone ContractionMode = iota
	// ContractionGlobal applies full (unbounded) bisimulation contraction.
	ContractionGlobal
	// ContractionRooted applies bisimulation contraction restricted to the
	// designated-reachable subgraph.
	ContractionRooted
	// ContractionCanonical applies k-bounded bisimulation contraction,
	// where k is the search's current depth bound.
	ContractionCanonical
)

// searchNode is one entry of the BFS/IBDS frontier: the state reached, and
// the action sequence that reached it, needed to reconstruct the Plan once
// a goal state is found.
type searchNode struct {
	state *State
	steps []ActionRef
}

// contract applies the given contraction mode to s, returning the
// contracted state (or s unchanged for ContractionNone) and, for
// ContractionCanonical, whether depth k already witnessed full
// bisimulation.
func contract(s *State, mode ContractionMode, k int, storages *Storages) (*State, bool) {
	switch mode {
	case ContractionGlobal:
		return ContractGlobal(s, storages.Signatures), false
	case ContractionRooted:
		return ContractRooted(s, storages.Signatures), false
	case ContractionCanonical:
		return ContractCanonical(s, k, storages.Signatures)
	default:
		return s, false
	}
}

// UnboundedSearch runs an unbounded FIFO breadth-first search over the
// product-update successor graph, using full bisimulation contraction to
// keep the frontier finite. The closed set (storages.States) is a
// structural-equality dedup table over contracted states; a second visit
// to an already-closed state is dropped without expanding it.
//
// A worklist loop drains a FIFO queue of states, expanding each by every
// available action and testing the goal formula against the result.
func UnboundedSearch(task *PlanningTask, storages *Storages) PlanOutcome {
	root, _ := contract(task.Initial, ContractionGlobal, 0, storages)
	if _, seen := storages.States.Intern(root); seen {
		panic("daedalus: UnboundedSearch: fresh storages already contain the initial state")
	}
	if Satisfies(root, task.Goal) {
		return PlanOutcome{Kind: OutcomeFound, Plan: Plan{}}
	}

	queue := []searchNode{{state: root, steps: nil}}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for i, action := range task.Actions {
			succ, applicable := Update(node.state, action, storages.Labels)
			if !applicable {
				continue
			}
			contracted, _ := contract(succ, ContractionGlobal, 0, storages)
			if _, seen := storages.States.Intern(contracted); seen {
				continue
			}
			steps := append(append([]ActionRef(nil), node.steps...), ActionRef{ActionIndex: i, ActionName: action.Name()})
			if Satisfies(contracted, task.Goal) {
				return PlanOutcome{Kind: OutcomeFound, Plan: Plan{Steps: steps}}
			}
			queue = append(queue, searchNode{state: contracted, steps: steps})
		}
	}
	return PlanOutcome{Kind: OutcomeNoPlan}
}

// IterativeBoundedSearch runs iterative bounded deepening starting at
// b_min = max(goal.ModalDepth(), task.maximumDepth), using k-bounded
// canonical contraction at each depth bound k. The search may only
// conclude OutcomeNoPlan once the entire quotient explored at bound k was
// tight: the root AND every state reached while expanding it must each
// have had is_true_bisimulation = true at that bound. A single non-tight
// state means bound k may have merged worlds a deeper formula could still
// distinguish, so a goal reachable past that state could have been missed
// — the search must deepen instead of concluding.
//
// Uses the same worklist shape as UnboundedSearch, with an uncapped BFS
// over the (finite) k-bounded quotient and the contraction mode swapped
// from full to canonical.
//
// storages.Labels is shared across every depth bound, since deriveLabel
// looks up label ids that task.Initial and its successors already carry —
// swapping label stores mid-search would strand those ids. storages.States
// and storages.Signatures are NOT reused: a k-bounded signature from one
// iteration is not comparable to a (k+1)-bounded signature from another,
// so each bound gets its own fresh closed set and signature table, built
// from storages.Labels alone.
func IterativeBoundedSearch(task *PlanningTask, maxBound int, storages *Storages) PlanOutcome {
	bMin := task.Goal.ModalDepth()
	if task.maximumDepth > bMin {
		bMin = task.maximumDepth
	}

	for k := bMin; k <= maxBound; k++ {
		outcome, allTight := boundedSearch(task, k, storages.Labels)
		if outcome.Kind == OutcomeFound {
			return outcome
		}
		if allTight {
			return PlanOutcome{Kind: OutcomeNoPlan}
		}
	}
	return PlanOutcome{Kind: OutcomeUnknown}
}

// boundedSearch runs one bounded-depth BFS iteration of IterativeBoundedSearch
// at contraction bound k, reporting whether the root and every state
// reached while expanding it were all true bisimulations at this bound.
// labelStore is the same store task.Initial's labels were interned in,
// shared across bounds; the state and signature stores are fresh to this
// bound only.
func boundedSearch(task *PlanningTask, k int, labelStore *LabelStore) (PlanOutcome, bool) {
	localStorages := &Storages{Labels: labelStore, States: NewStateStore(), Signatures: NewSignatureStore()}
	root, rootIsTrue := contract(task.Initial, ContractionCanonical, k, localStorages)
	allTight := rootIsTrue
	localStorages.States.Intern(root)
	if Satisfies(root, task.Goal) {
		return PlanOutcome{Kind: OutcomeFound, Plan: Plan{}}, allTight
	}

	queue := []searchNode{{state: root, steps: nil}}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for i, action := range task.Actions {
			succ, applicable := Update(node.state, action, localStorages.Labels)
			if !applicable {
				continue
			}
			contracted, isTrue := contract(succ, ContractionCanonical, k, localStorages)
			if !isTrue {
				allTight = false
			}
			if _, seen := localStorages.States.Intern(contracted); seen {
				continue
			}
			steps := append(append([]ActionRef(nil), node.steps...), ActionRef{ActionIndex: i, ActionName: action.Name()})
			if Satisfies(contracted, task.Goal) {
				return PlanOutcome{Kind: OutcomeFound, Plan: Plan{Steps: steps}}, allTight
			}
			queue = append(queue, searchNode{state: contracted, steps: steps})
		}
	}
	return PlanOutcome{Kind: OutcomeUnknown}, allTight
}

// Search dispatches to UnboundedSearch or IterativeBoundedSearch according
// to the requested contraction mode: ContractionGlobal (or
// ContractionNone) runs the unbounded strategy; ContractionCanonical and
// ContractionRooted run iterative bounded deepening up to maxBound.
// UnboundedSearch always applies full contraction and
// IterativeBoundedSearch always applies canonical contraction, so
// ContractionNone and ContractionRooted select a strategy only: Search
// applies neither of those contractions.
func Search(task *PlanningTask, mode ContractionMode, maxBound int, storages *Storages) PlanOutcome {
	switch mode {
	case ContractionGlobal, ContractionNone:
		return UnboundedSearch(task, storages)
	default:
		return IterativeBoundedSearch(task, maxBound, storages)
	}
}
