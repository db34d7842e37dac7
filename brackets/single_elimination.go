package brackets

import (
	"fmt"

	"github.com/Dosada05/pingpong-tournament/models"
)

// Bracket is a single-elimination tree. Round 0 holds nextPow2(n)/2
// matches and every following round halves that, down to the final.
// The winner of rounds[r][i] moves to side A of rounds[r+1][i/2] when i is
// even and to side B when it is odd.
type Bracket struct {
	qualifiers []models.Entrant
	rounds     [][]models.KnockoutMatch
	// vacant[r][i][s] marks a side that can never be filled: padding in
	// round 0, or fed by a match whose subtree holds nobody.
	vacant [][][2]bool
}

// BuildBracket lays the qualifiers out in order, pads the field with empty
// slots up to the next power of two and pairs consecutive slots. Byes are
// resolved immediately so no populated slot is left waiting.
func BuildBracket(qualifiers []models.Entrant) (*Bracket, error) {
	n := len(qualifiers)
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot build a bracket without qualifiers", ErrInvalidConfiguration)
	}

	b := &Bracket{qualifiers: append([]models.Entrant(nil), qualifiers...)}

	if n == 1 {
		lone := b.qualifiers[0]
		b.rounds = [][]models.KnockoutMatch{{{Round: 0, Index: 0, SideA: &lone, Bye: true}}}
		b.vacant = [][][2]bool{{{false, true}}}
		return b, nil
	}

	size := 1
	for size < n {
		size *= 2
	}

	first := make([]models.KnockoutMatch, size/2)
	firstVacant := make([][2]bool, size/2)
	for i := range first {
		first[i] = models.KnockoutMatch{Round: 0, Index: i}
		for s := 0; s < 2; s++ {
			slot := 2*i + s
			if slot >= n {
				firstVacant[i][s] = true
				continue
			}
			e := b.qualifiers[slot]
			if s == 0 {
				first[i].SideA = &e
			} else {
				first[i].SideB = &e
			}
		}
	}
	b.rounds = append(b.rounds, first)
	b.vacant = append(b.vacant, firstVacant)

	for prev := first; len(prev) > 1; {
		r := len(b.rounds)
		next := make([]models.KnockoutMatch, len(prev)/2)
		nextVacant := make([][2]bool, len(prev)/2)
		for i := range next {
			next[i] = models.KnockoutMatch{Round: r, Index: i}
			nextVacant[i][0] = b.isDead(r-1, 2*i)
			nextVacant[i][1] = b.isDead(r-1, 2*i+1)
		}
		b.rounds = append(b.rounds, next)
		b.vacant = append(b.vacant, nextVacant)
		prev = next
	}

	for r := range b.rounds {
		for i := range b.rounds[r] {
			v := b.vacant[r][i]
			b.rounds[r][i].Bye = v[0] != v[1]
			b.rounds[r][i].Vacant = v[0] && v[1]
		}
	}

	// Byes whose lone entrant is already seated advance now; the rest
	// follow as soon as their feeder produces a winner.
	for r := range b.rounds {
		for i := range b.rounds[r] {
			m := b.rounds[r][i]
			if m.Bye {
				if e := m.Advancing(); e != nil {
					b.advance(r, i, *e)
				}
			}
		}
	}
	return b, nil
}

func (b *Bracket) isDead(r, i int) bool {
	v := b.vacant[r][i]
	return v[0] && v[1]
}

// advance seats e in the match fed by rounds[r][i] and keeps going while
// the receiving match is a bye.
func (b *Bracket) advance(r, i int, e models.Entrant) {
	for r+1 < len(b.rounds) {
		next := &b.rounds[r+1][i/2]
		seated := e
		if i%2 == 0 {
			next.SideA = &seated
		} else {
			next.SideB = &seated
		}
		if !next.Bye {
			return
		}
		r, i = r+1, i/2
	}
}

// RecordResult stores the outcome of a knockout match and moves the winner
// forward. Validation happens before any state changes, so a failed call
// leaves the bracket untouched.
func (b *Bracket) RecordResult(round, index int, sets []models.SetScore) (models.MatchOutcome, error) {
	if round < 0 || round >= len(b.rounds) || index < 0 || index >= len(b.rounds[round]) {
		return models.MatchOutcome{}, fmt.Errorf("%w: round %d match %d", ErrUnknownMatch, round, index)
	}

	m := &b.rounds[round][index]
	if m.Result != nil {
		return models.MatchOutcome{}, fmt.Errorf("%w: %s match %d", ErrDuplicateResult, b.RoundName(round), index)
	}
	if m.SideA == nil || m.SideB == nil {
		return models.MatchOutcome{}, fmt.Errorf("%w: %s match %d", ErrMatchNotReady, b.RoundName(round), index)
	}

	outcome, err := NewMatchOutcome(*m.SideA, *m.SideB, sets)
	if err != nil {
		return models.MatchOutcome{}, err
	}

	m.Result = &outcome
	b.advance(round, index, outcome.Winner())
	return outcome, nil
}

// Champion returns the winner of the final, either by result or by
// walkover when the final is a bye. It returns nil while play continues.
func (b *Bracket) Champion() *models.Entrant {
	final := b.rounds[len(b.rounds)-1][0]
	e := final.Advancing()
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (b *Bracket) IsComplete() bool {
	return b.Champion() != nil
}

func (b *Bracket) RoundCount() int {
	return len(b.rounds)
}

func (b *Bracket) Match(round, index int) (models.KnockoutMatch, error) {
	if round < 0 || round >= len(b.rounds) || index < 0 || index >= len(b.rounds[round]) {
		return models.KnockoutMatch{}, fmt.Errorf("%w: round %d match %d", ErrUnknownMatch, round, index)
	}
	return cloneMatch(b.rounds[round][index]), nil
}

// Round returns a copy of every match in round r.
func (b *Bracket) Round(r int) []models.KnockoutMatch {
	if r < 0 || r >= len(b.rounds) {
		return nil
	}
	out := make([]models.KnockoutMatch, len(b.rounds[r]))
	for i, m := range b.rounds[r] {
		out[i] = cloneMatch(m)
	}
	return out
}

// Ready lists every match that can take a result right now.
func (b *Bracket) Ready() []models.KnockoutMatch {
	var out []models.KnockoutMatch
	for _, round := range b.rounds {
		for _, m := range round {
			if m.IsReady() {
				out = append(out, cloneMatch(m))
			}
		}
	}
	return out
}

// RoundName labels round r by the number of slots it holds.
func (b *Bracket) RoundName(r int) string {
	if r == len(b.rounds)-1 {
		return "Final"
	}
	switch slots := 2 * len(b.rounds[r]); slots {
	case 4:
		return "Semifinals"
	case 8:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round of %d", slots)
	}
}

func (b *Bracket) Snapshot() models.Bracket {
	out := models.Bracket{
		Qualifiers: append([]models.Entrant(nil), b.qualifiers...),
		Rounds:     make([]models.BracketRound, len(b.rounds)),
		Champion:   b.Champion(),
	}
	for r := range b.rounds {
		out.Rounds[r] = models.BracketRound{Name: b.RoundName(r), Matches: b.Round(r)}
	}
	return out
}

func cloneMatch(m models.KnockoutMatch) models.KnockoutMatch {
	if m.SideA != nil {
		a := *m.SideA
		m.SideA = &a
	}
	if m.SideB != nil {
		b := *m.SideB
		m.SideB = &b
	}
	if m.Result != nil {
		res := *m.Result
		res.Sets = append([]models.SetScore(nil), res.Sets...)
		m.Result = &res
	}
	return m
}
