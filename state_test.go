package daedalus

import "testing"

func TestNewState_Validates(t *testing.T) {
	lang, _ := NewLanguage([]string{"p"}, []string{"a"})
	labelStore := NewLabelStore()
	label := labelStore.Intern(NewBitset(1))
	full := NewBitset(1)
	full.Set(0)
	designated := NewBitset(1)
	designated.Set(0)

	tests := []struct {
		name       string
		worldCount int
		relation   [][]Bitset
		labels     []LabelID
		designated Bitset
		wantErr    bool
	}{
		{
			name:       "valid single world",
			worldCount: 1,
			relation:   [][]Bitset{{full}},
			labels:     []LabelID{label},
			designated: designated,
		},
		{
			name:       "wrong relation length",
			worldCount: 1,
			relation:   [][]Bitset{{full}, {full}},
			labels:     []LabelID{label},
			designated: designated,
			wantErr:    true,
		},
		{
			name:       "wrong labels length",
			worldCount: 1,
			relation:   [][]Bitset{{full}},
			labels:     []LabelID{label, label},
			designated: designated,
			wantErr:    true,
		},
		{
			name:       "empty designated set",
			worldCount: 1,
			relation:   [][]Bitset{{full}},
			labels:     []LabelID{label},
			designated: NewBitset(1),
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewState(lang, tt.worldCount, tt.relation, tt.labels, labelStore, tt.designated)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewState() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestState_SuccessorsAndLabels(t *testing.T) {
	lang := coinBoxLanguage(t)
	labelStore := NewLabelStore()
	s := coinBoxInitial(t, lang, labelStore)

	heads, _ := lang.AtomID("heads")
	if !s.HasLabel(0, heads) {
		t.Fatal("world 0 should have heads")
	}
	if s.HasLabel(1, heads) {
		t.Fatal("world 1 should not have heads")
	}

	a, _ := lang.AgentID("a")
	succ := s.Successors(a, 0)
	if succ.PopCount() != 2 {
		t.Fatalf("Successors(a, 0) = %v, want both worlds", succ.Elements())
	}
}

func TestState_DesignatedWorlds(t *testing.T) {
	lang := coinBoxLanguage(t)
	labelStore := NewLabelStore()
	s := coinBoxInitial(t, lang, labelStore)

	got := s.DesignatedWorlds()
	if len(got) != 1 || got[0] != WorldID(0) {
		t.Fatalf("DesignatedWorlds() = %v, want [0]", got)
	}
}

func TestState_CanonicalRenumberingIsDeterministic(t *testing.T) {
	lang := muddyChildrenLanguage(t)
	labelStore := NewLabelStore()
	s := muddyChildrenInitial(t, lang, labelStore)

	first := s.canonicalRenumbering()
	second := s.canonicalRenumbering()
	if len(first) != len(second) {
		t.Fatalf("canonicalRenumbering() lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("canonicalRenumbering() not deterministic at index %d: %v vs %v", i, first[i], second[i])
		}
	}
	if len(first) != s.worldCount {
		t.Fatalf("canonicalRenumbering() visited %d worlds, want %d", len(first), s.worldCount)
	}
}
