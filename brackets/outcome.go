package brackets

import (
	"fmt"

	"github.com/Dosada05/pingpong-tournament/models"
)

// NewMatchOutcome validates the sets and derives the winner. A set counts
// for whichever side scored more points in it; equal sets count for nobody.
// Equal set wins are rejected with ErrTiedOutcome, table tennis has no draws.
func NewMatchOutcome(a, b models.Entrant, sets []models.SetScore) (models.MatchOutcome, error) {
	if a.ID == b.ID {
		return models.MatchOutcome{}, fmt.Errorf("%w: entrant %q cannot play itself", ErrInvalidConfiguration, a.Name)
	}

	var setsA, setsB int
	for i, s := range sets {
		if s.A < 0 || s.B < 0 {
			return models.MatchOutcome{}, fmt.Errorf("%w: set %d has a negative score (%d-%d)", ErrInvalidConfiguration, i+1, s.A, s.B)
		}
		switch {
		case s.A > s.B:
			setsA++
		case s.B > s.A:
			setsB++
		}
	}
	if setsA == setsB {
		return models.MatchOutcome{}, fmt.Errorf("%w: %s %d-%d %s", ErrTiedOutcome, a.Name, setsA, setsB, b.Name)
	}

	winner := a.ID
	if setsB > setsA {
		winner = b.ID
	}

	return models.MatchOutcome{
		SideA:    a,
		SideB:    b,
		Sets:     append([]models.SetScore(nil), sets...),
		SetsA:    setsA,
		SetsB:    setsB,
		WinnerID: winner,
	}, nil
}
