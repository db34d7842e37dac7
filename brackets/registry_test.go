package brackets

import (
	"errors"
	"testing"
)

func TestRegistryAssignsDenseIDs(t *testing.T) {
	reg := NewRegistry()
	for i, name := range []string{"Ma Long", "Fan Zhendong", "Timo Boll"} {
		e, err := reg.Register(name, i+1)
		if err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
		if int(e.ID) != i+1 {
			t.Errorf("id of %q = %d, want %d", name, e.ID, i+1)
		}
	}
	if reg.Len() != 3 {
		t.Fatalf("Len = %d, want 3", reg.Len())
	}

	e, ok := reg.Lookup("  Timo Boll ")
	if !ok || e.ID != 3 {
		t.Errorf("Lookup = %+v, %v", e, ok)
	}
	if _, ok := reg.Get(0); ok {
		t.Errorf("Get(0) should miss")
	}
	if _, ok := reg.Get(4); ok {
		t.Errorf("Get(4) should miss")
	}
}

func TestRegistryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		seed int
	}{
		{name: "", seed: 1},
		{name: "   ", seed: 1},
		{name: "A", seed: 0},
		{name: "Dup", seed: 2},
	}

	reg := NewRegistry()
	if _, err := reg.Register("Dup", 1); err != nil {
		t.Fatalf("setup: %v", err)
	}
	for _, tt := range tests {
		if _, err := reg.Register(tt.name, tt.seed); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Register(%q, %d): expected ErrInvalidConfiguration, got %v", tt.name, tt.seed, err)
		}
	}
	if reg.Len() != 1 {
		t.Errorf("rejected entrants were stored, Len = %d", reg.Len())
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Register("A", 1); err != nil {
		t.Fatal(err)
	}
	all := reg.All()
	all[0].Name = "changed"
	if e, _ := reg.Get(1); e.Name != "A" {
		t.Errorf("All leaked internal state")
	}
}
