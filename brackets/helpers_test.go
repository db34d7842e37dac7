package brackets

import (
	"testing"

	"github.com/Dosada05/pingpong-tournament/models"
)

func sets(pairs ...int) []models.SetScore {
	out := make([]models.SetScore, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.SetScore{A: pairs[i], B: pairs[i+1]})
	}
	return out
}

// aWins is a straight-sets win for side A.
var aWins = sets(11, 5, 11, 7)

var bWins = sets(5, 11, 7, 11)

func entrants(t *testing.T, names ...string) []models.Entrant {
	t.Helper()
	reg := NewRegistry()
	out := make([]models.Entrant, len(names))
	for i, n := range names {
		e, err := reg.Register(n, i+1)
		if err != nil {
			t.Fatalf("Register(%q): %v", n, err)
		}
		out[i] = e
	}
	return out
}

func names(es []models.Entrant) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Name
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sideName(e *models.Entrant) string {
	if e == nil {
		return "-"
	}
	return e.Name
}
