package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/pingpong-tournament/models"
)

// Assignment is one group produced by snake seeding.
type Assignment struct {
	Name    string
	Members []models.Entrant
}

// GroupName returns the canonical name of the i-th group (0-based).
func GroupName(i int) string {
	return fmt.Sprintf("G%d", i+1)
}

// AssignGroups distributes entrants over groupCount groups using snake
// seeding: indexes run 0..n-1, then n-1..0, and so on, one entrant per step
// in ascending seed order. Group sizes never differ by more than one.
func AssignGroups(entrants []models.Entrant, groupCount int) ([]Assignment, error) {
	if groupCount < 1 {
		return nil, fmt.Errorf("%w: group count must be at least 1, got %d", ErrInvalidConfiguration, groupCount)
	}
	if len(entrants) == 0 {
		return nil, fmt.Errorf("%w: no entrants to distribute", ErrInvalidConfiguration)
	}

	ordered := append([]models.Entrant(nil), entrants...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Seed != ordered[j].Seed {
			return ordered[i].Seed < ordered[j].Seed
		}
		return ordered[i].ID < ordered[j].ID
	})

	groups := make([]Assignment, groupCount)
	for i := range groups {
		groups[i] = Assignment{Name: GroupName(i), Members: []models.Entrant{}}
	}

	idx, step := 0, 1
	for _, e := range ordered {
		e.Group = groups[idx].Name
		groups[idx].Members = append(groups[idx].Members, e)

		idx += step
		switch {
		case idx == groupCount:
			step = -1
			idx = groupCount - 1
		case idx < 0:
			step = 1
			idx = 0
		}
	}
	return groups, nil
}

type pairKey struct {
	lo, hi models.EntrantID
}

func keyOf(a, b models.EntrantID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Group is a round-robin group. Its schedule is fixed at creation and each
// scheduled pair accepts exactly one result.
type Group struct {
	name     string
	members  []models.Entrant
	position map[models.EntrantID]int
	schedule []models.Pairing
	played   map[pairKey]int
	results  []models.MatchOutcome
}

func NewGroup(name string, members []models.Entrant) *Group {
	g := &Group{
		name:     name,
		members:  append([]models.Entrant(nil), members...),
		position: make(map[models.EntrantID]int, len(members)),
		played:   make(map[pairKey]int),
	}
	for i, m := range g.members {
		g.position[m.ID] = i
	}

	g.schedule = make([]models.Pairing, 0, len(members)*(len(members)-1)/2)
	for i := 0; i < len(g.members); i++ {
		for j := i + 1; j < len(g.members); j++ {
			g.schedule = append(g.schedule, models.Pairing{A: g.members[i], B: g.members[j]})
		}
	}
	return g
}

func (g *Group) Name() string { return g.name }

func (g *Group) Members() []models.Entrant {
	return append([]models.Entrant(nil), g.members...)
}

// Schedule returns every pairing of the group. Repeated calls return the
// same pairs in the same order.
func (g *Group) Schedule() []models.Pairing {
	return append([]models.Pairing(nil), g.schedule...)
}

// Pending lists scheduled pairings that still have no result.
func (g *Group) Pending() []models.Pairing {
	var out []models.Pairing
	for _, p := range g.schedule {
		if _, done := g.played[keyOf(p.A.ID, p.B.ID)]; !done {
			out = append(out, p)
		}
	}
	return out
}

func (g *Group) Results() []models.MatchOutcome {
	return append([]models.MatchOutcome(nil), g.results...)
}

// RecordResult stores the outcome of a scheduled pairing. sideA and sideB
// may be given in either order; set scores are read from sideA's view.
func (g *Group) RecordResult(sideA, sideB models.EntrantID, sets []models.SetScore) (models.MatchOutcome, error) {
	ia, okA := g.position[sideA]
	ib, okB := g.position[sideB]
	if !okA || !okB || sideA == sideB {
		return models.MatchOutcome{}, fmt.Errorf("%w: %d vs %d in group %s", ErrUnknownPair, sideA, sideB, g.name)
	}

	key := keyOf(sideA, sideB)
	if _, done := g.played[key]; done {
		return models.MatchOutcome{}, fmt.Errorf("%w: %s vs %s in group %s",
			ErrDuplicateResult, g.members[ia].Name, g.members[ib].Name, g.name)
	}

	outcome, err := NewMatchOutcome(g.members[ia], g.members[ib], sets)
	if err != nil {
		return models.MatchOutcome{}, err
	}

	g.played[key] = len(g.results)
	g.results = append(g.results, outcome)
	return outcome, nil
}

// IsComplete reports whether every scheduled pairing has a result.
func (g *Group) IsComplete() bool {
	return len(g.results) == len(g.schedule)
}

// Standings ranks the members from the recorded results. A win is worth 2
// points and a loss 1. Ties on points go to the lower seed number.
func (g *Group) Standings() []models.StandingsEntry {
	table := make([]models.StandingsEntry, len(g.members))
	for i, m := range g.members {
		table[i].Entrant = m
	}

	for _, r := range g.results {
		w := &table[g.position[r.WinnerID]]
		l := &table[g.position[r.Loser().ID]]
		w.Points += 2
		w.Wins++
		l.Points++
		l.Losses++

		a := &table[g.position[r.SideA.ID]]
		b := &table[g.position[r.SideB.ID]]
		a.Played++
		b.Played++
		a.SetsWon += r.SetsA
		a.SetsLost += r.SetsB
		b.SetsWon += r.SetsB
		b.SetsLost += r.SetsA
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].Entrant.Seed != table[j].Entrant.Seed {
			return table[i].Entrant.Seed < table[j].Entrant.Seed
		}
		return table[i].Entrant.ID < table[j].Entrant.ID
	})
	for i := range table {
		table[i].Rank = i + 1
	}
	return table
}

// Snapshot copies the group into its read model.
func (g *Group) Snapshot() models.Group {
	return models.Group{
		Name:      g.name,
		Members:   g.Members(),
		Schedule:  g.Schedule(),
		Results:   g.Results(),
		Standings: g.Standings(),
		Complete:  g.IsComplete(),
	}
}
