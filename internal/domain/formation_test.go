package domain

import "testing"

func TestFormations_Enumeration(t *testing.T) {
	got := Formations()

	want := []Formation{
		{5, 4, 1}, {5, 3, 2}, {5, 2, 3},
		{4, 5, 1}, {4, 4, 2}, {4, 3, 3},
		{3, 5, 2}, {3, 4, 3},
	}

	if len(got) != len(want) {
		t.Fatalf("Expected %d formations, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formation %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFormations_AllValid(t *testing.T) {
	for _, f := range Formations() {
		if !f.Valid() {
			t.Errorf("Enumerated formation %s is invalid", f)
		}
		if 1+f.Def+f.Mid+f.Fwd != LineupSize {
			t.Errorf("Formation %s does not sum to %d", f, LineupSize)
		}
	}
}

func TestFormation_Valid(t *testing.T) {
	cases := []struct {
		f     Formation
		valid bool
	}{
		{Formation{4, 4, 2}, true},
		{Formation{5, 4, 1}, true},
		{Formation{2, 5, 3}, false}, // too few defenders
		{Formation{5, 5, 0}, false}, // no forward
		{Formation{4, 4, 3}, false}, // sums to 12
		{Formation{6, 3, 1}, false}, // too many defenders
	}

	for _, c := range cases {
		if got := c.f.Valid(); got != c.valid {
			t.Errorf("%s: Valid() = %v, want %v", c.f, got, c.valid)
		}
	}
}

func TestFormation_String(t *testing.T) {
	f := Formation{Def: 4, Mid: 4, Fwd: 2}
	if f.String() != "4-4-2" {
		t.Errorf("Expected 4-4-2, got %s", f.String())
	}
}
