package brackets

import (
	"fmt"

	"github.com/Dosada05/pingpong-tournament/models"
)

// Seeding is the raw registration input for one entrant.
type Seeding struct {
	Name string
	Seed int
}

// Tournament ties the group stage and the knockout stage together. It is
// not safe for concurrent use; callers serialize access.
type Tournament struct {
	registry        *Registry
	groups          []*Group
	groupIndex      map[string]int
	advancePerGroup int
	bracket         *Bracket
}

// NewTournament registers the entrants, snake-seeds them into groupCount
// groups and fixes every group schedule. advancePerGroup may not exceed the
// size of the smallest group.
func NewTournament(entrants []Seeding, groupCount, advancePerGroup int) (*Tournament, error) {
	if len(entrants) == 0 {
		return nil, fmt.Errorf("%w: no entrants", ErrInvalidConfiguration)
	}
	if groupCount < 1 {
		return nil, fmt.Errorf("%w: group count must be at least 1, got %d", ErrInvalidConfiguration, groupCount)
	}
	if advancePerGroup < 1 {
		return nil, fmt.Errorf("%w: advance per group must be at least 1, got %d", ErrInvalidConfiguration, advancePerGroup)
	}

	reg := NewRegistry()
	for _, s := range entrants {
		if _, err := reg.Register(s.Name, s.Seed); err != nil {
			return nil, err
		}
	}

	assignments, err := AssignGroups(reg.All(), groupCount)
	if err != nil {
		return nil, err
	}

	smallest := assignments[len(assignments)-1].Members
	for _, a := range assignments {
		if len(a.Members) < len(smallest) {
			smallest = a.Members
		}
	}
	if advancePerGroup > len(smallest) {
		return nil, fmt.Errorf("%w: %d entrants cannot advance from a group of %d",
			ErrInvalidConfiguration, advancePerGroup, len(smallest))
	}

	t := &Tournament{
		registry:        reg,
		groups:          make([]*Group, len(assignments)),
		groupIndex:      make(map[string]int, len(assignments)),
		advancePerGroup: advancePerGroup,
	}
	for i, a := range assignments {
		for _, m := range a.Members {
			reg.setGroup(m.ID, a.Name)
		}
		t.groups[i] = NewGroup(a.Name, a.Members)
		t.groupIndex[a.Name] = i
	}
	return t, nil
}

func (t *Tournament) Registry() *Registry { return t.registry }

func (t *Tournament) AdvancePerGroup() int { return t.advancePerGroup }

// Groups returns the groups in name order (G1, G2, ...).
func (t *Tournament) Groups() []*Group {
	return append([]*Group(nil), t.groups...)
}

func (t *Tournament) Group(name string) (*Group, error) {
	i, ok := t.groupIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
	}
	return t.groups[i], nil
}

// GroupStageComplete reports whether every group has all of its results.
func (t *Tournament) GroupStageComplete() bool {
	for _, g := range t.groups {
		if !g.IsComplete() {
			return false
		}
	}
	return true
}

// Qualifiers selects the knockout field from the finished group stage.
func (t *Tournament) Qualifiers() ([]models.Entrant, error) {
	return SelectQualifiers(t.groups, t.advancePerGroup)
}

// StartKnockout builds the bracket from the qualifiers. It can only run
// once.
func (t *Tournament) StartKnockout() (*Bracket, error) {
	if t.bracket != nil {
		return nil, ErrKnockoutAlreadyStarted
	}
	qualifiers, err := t.Qualifiers()
	if err != nil {
		return nil, err
	}
	b, err := BuildBracket(qualifiers)
	if err != nil {
		return nil, err
	}
	t.bracket = b
	return b, nil
}

// Bracket returns the knockout bracket or ErrKnockoutNotStarted.
func (t *Tournament) Bracket() (*Bracket, error) {
	if t.bracket == nil {
		return nil, ErrKnockoutNotStarted
	}
	return t.bracket, nil
}

func (t *Tournament) Status() models.TournamentStatus {
	switch {
	case t.bracket == nil:
		return models.StatusGroupStage
	case t.bracket.IsComplete():
		return models.StatusCompleted
	default:
		return models.StatusKnockout
	}
}

func (t *Tournament) Champion() *models.Entrant {
	if t.bracket == nil {
		return nil
	}
	return t.bracket.Champion()
}
