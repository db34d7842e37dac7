package brackets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Dosada05/pingpong-tournament/models"
)

func TestAssignGroupsScenarioA(t *testing.T) {
	es := entrants(t, "A", "B", "C", "D")

	groups, err := AssignGroups(es, 2)
	if err != nil {
		t.Fatalf("AssignGroups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "G1" || !equalNames(names(groups[0].Members), []string{"A", "D"}) {
		t.Errorf("G1 = %s %v, want [A D]", groups[0].Name, names(groups[0].Members))
	}
	if groups[1].Name != "G2" || !equalNames(names(groups[1].Members), []string{"B", "C"}) {
		t.Errorf("G2 = %s %v, want [B C]", groups[1].Name, names(groups[1].Members))
	}
}

func TestAssignGroupsSnakeOrderBySeed(t *testing.T) {
	// Registration order differs from seed order.
	reg := NewRegistry()
	for _, s := range []struct {
		name string
		seed int
	}{{"Third", 3}, {"First", 1}, {"Fourth", 4}, {"Second", 2}, {"Fifth", 5}, {"Sixth", 6}} {
		if _, err := reg.Register(s.name, s.seed); err != nil {
			t.Fatal(err)
		}
	}

	groups, err := AssignGroups(reg.All(), 3)
	if err != nil {
		t.Fatalf("AssignGroups: %v", err)
	}
	want := [][]string{
		{"First", "Sixth"},
		{"Second", "Fifth"},
		{"Third", "Fourth"},
	}
	for i, g := range groups {
		if !equalNames(names(g.Members), want[i]) {
			t.Errorf("%s = %v, want %v", g.Name, names(g.Members), want[i])
		}
		for _, m := range g.Members {
			if m.Group != g.Name {
				t.Errorf("%s has group %q, want %q", m.Name, m.Group, g.Name)
			}
		}
	}
}

func TestAssignGroupsBalancedSizes(t *testing.T) {
	for n := 1; n <= 17; n++ {
		for g := 1; g <= 5; g++ {
			t.Run(fmt.Sprintf("n=%d/g=%d", n, g), func(t *testing.T) {
				ns := make([]string, n)
				for i := range ns {
					ns[i] = fmt.Sprintf("P%d", i+1)
				}
				groups, err := AssignGroups(entrants(t, ns...), g)
				if err != nil {
					t.Fatalf("AssignGroups: %v", err)
				}
				if len(groups) != g {
					t.Fatalf("got %d groups, want %d", len(groups), g)
				}
				total, lo, hi := 0, n, 0
				seen := make(map[models.EntrantID]bool)
				for _, grp := range groups {
					size := len(grp.Members)
					total += size
					lo = min(lo, size)
					hi = max(hi, size)
					for _, m := range grp.Members {
						if seen[m.ID] {
							t.Fatalf("%s assigned twice", m.Name)
						}
						seen[m.ID] = true
					}
				}
				if total != n {
					t.Errorf("assigned %d entrants, want %d", total, n)
				}
				if hi-lo > 1 {
					t.Errorf("group sizes differ by %d", hi-lo)
				}
			})
		}
	}
}

func TestAssignGroupsInvalid(t *testing.T) {
	if _, err := AssignGroups(entrants(t, "A"), 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("groupCount=0: expected ErrInvalidConfiguration, got %v", err)
	}
	if _, err := AssignGroups(nil, 2); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("no entrants: expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestGroupScheduleCoversEveryPairOnce(t *testing.T) {
	for size := 0; size <= 7; size++ {
		ns := make([]string, size)
		for i := range ns {
			ns[i] = fmt.Sprintf("P%d", i+1)
		}
		g := NewGroup("G1", entrants(t, ns...))
		schedule := g.Schedule()

		if want := size * (size - 1) / 2; len(schedule) != want {
			t.Errorf("size %d: %d pairings, want %d", size, len(schedule), want)
		}
		seen := make(map[pairKey]bool)
		for _, p := range schedule {
			if p.A.ID == p.B.ID {
				t.Errorf("size %d: self pairing %s", size, p.A.Name)
			}
			k := keyOf(p.A.ID, p.B.ID)
			if seen[k] {
				t.Errorf("size %d: %s-%s scheduled twice", size, p.A.Name, p.B.Name)
			}
			seen[k] = true
		}

		again := g.Schedule()
		for i := range schedule {
			if schedule[i] != again[i] {
				t.Errorf("size %d: schedule changed between calls", size)
				break
			}
		}
		if size <= 1 && !g.IsComplete() {
			t.Errorf("size %d: empty schedule should be complete", size)
		}
	}
}

func TestGroupScenarioB(t *testing.T) {
	es := entrants(t, "A", "B", "C", "D")
	g := NewGroup("G1", []models.Entrant{es[0], es[3]})

	if _, err := g.RecordResult(es[0].ID, es[3].ID, sets(11, 5, 11, 7)); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	table := g.Standings()
	want := []struct {
		name   string
		points int
		rank   int
	}{{"A", 2, 1}, {"D", 1, 2}}
	for i, w := range want {
		row := table[i]
		if row.Entrant.Name != w.name || row.Points != w.points || row.Rank != w.rank {
			t.Errorf("row %d = (%s,%d,%d), want (%s,%d,%d)",
				i, row.Entrant.Name, row.Points, row.Rank, w.name, w.points, w.rank)
		}
	}
	if !g.IsComplete() {
		t.Errorf("group with its only pair played should be complete")
	}
}

func TestGroupScenarioD(t *testing.T) {
	es := entrants(t, "A", "B", "C", "D")
	g := NewGroup("G1", []models.Entrant{es[0], es[3]})

	if _, err := g.RecordResult(es[0].ID, es[1].ID, aWins); !errors.Is(err, ErrUnknownPair) {
		t.Errorf("outsider: expected ErrUnknownPair, got %v", err)
	}
	if _, err := g.RecordResult(es[0].ID, es[0].ID, aWins); !errors.Is(err, ErrUnknownPair) {
		t.Errorf("self pair: expected ErrUnknownPair, got %v", err)
	}
	if _, err := g.RecordResult(es[0].ID, es[3].ID, aWins); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	// Reversed order addresses the same pairing.
	if _, err := g.RecordResult(es[3].ID, es[0].ID, aWins); !errors.Is(err, ErrDuplicateResult) {
		t.Errorf("second result: expected ErrDuplicateResult, got %v", err)
	}
	if len(g.Results()) != 1 {
		t.Errorf("results = %d, want 1", len(g.Results()))
	}
}

func TestGroupRejectedResultLeavesStateUnchanged(t *testing.T) {
	es := entrants(t, "A", "B")
	g := NewGroup("G1", es)

	if _, err := g.RecordResult(es[0].ID, es[1].ID, sets(11, 5, 5, 11)); !errors.Is(err, ErrTiedOutcome) {
		t.Fatalf("expected ErrTiedOutcome, got %v", err)
	}
	if g.IsComplete() || len(g.Pending()) != 1 {
		t.Fatalf("tied result was recorded")
	}
	if _, err := g.RecordResult(es[0].ID, es[1].ID, bWins); err != nil {
		t.Fatalf("valid result after rejection: %v", err)
	}
}

func TestGroupStandings(t *testing.T) {
	es := entrants(t, "A", "B", "C", "D")
	g := NewGroup("G1", es)

	// D beats everyone, C beats A and B, A beats B.
	results := []struct {
		a, b int
		sets []models.SetScore
	}{
		{0, 1, aWins},
		{0, 2, bWins},
		{0, 3, bWins},
		{1, 2, bWins},
		{1, 3, bWins},
		{2, 3, bWins},
	}
	for _, r := range results {
		if _, err := g.RecordResult(es[r.a].ID, es[r.b].ID, r.sets); err != nil {
			t.Fatalf("RecordResult(%s,%s): %v", es[r.a].Name, es[r.b].Name, err)
		}
	}

	table := g.Standings()
	if got := names(standingsEntrants(table)); !equalNames(got, []string{"D", "C", "A", "B"}) {
		t.Errorf("order = %v, want [D C A B]", got)
	}

	total := 0
	for i, row := range table {
		total += row.Points
		if row.Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", row.Entrant.Name, row.Rank, i+1)
		}
		if row.Played != 3 || row.Wins+row.Losses != 3 {
			t.Errorf("%s played %d (%d-%d), want 3", row.Entrant.Name, row.Played, row.Wins, row.Losses)
		}
	}
	if total != 3*len(results) {
		t.Errorf("points total = %d, want %d", total, 3*len(results))
	}
	if table[0].Points != 6 || table[0].SetsWon != 6 || table[0].SetsLost != 0 {
		t.Errorf("D row = %+v", table[0])
	}
}

func TestGroupStandingsTieBreakBySeed(t *testing.T) {
	es := entrants(t, "A", "B", "C")
	g := NewGroup("G1", es)

	// Cycle: every entrant finishes 1-1 with 3 points.
	if _, err := g.RecordResult(es[0].ID, es[1].ID, bWins); err != nil {
		t.Fatal(err)
	}
	if _, err := g.RecordResult(es[1].ID, es[2].ID, bWins); err != nil {
		t.Fatal(err)
	}
	if _, err := g.RecordResult(es[2].ID, es[0].ID, bWins); err != nil {
		t.Fatal(err)
	}

	if got := names(standingsEntrants(g.Standings())); !equalNames(got, []string{"A", "B", "C"}) {
		t.Errorf("order = %v, want seed order [A B C]", got)
	}
}

func standingsEntrants(table []models.StandingsEntry) []models.Entrant {
	out := make([]models.Entrant, len(table))
	for i, row := range table {
		out[i] = row.Entrant
	}
	return out
}
