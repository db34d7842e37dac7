package brackets

import (
	"fmt"

	"github.com/Dosada05/pingpong-tournament/models"
)

// SelectQualifiers takes the top advancePerGroup finishers of each group,
// group by group in the given order. Every group must be complete. No
// cross-group reseeding is applied.
func SelectQualifiers(groups []*Group, advancePerGroup int) ([]models.Entrant, error) {
	if advancePerGroup < 1 {
		return nil, fmt.Errorf("%w: advance per group must be at least 1, got %d", ErrInvalidConfiguration, advancePerGroup)
	}

	for _, g := range groups {
		if !g.IsComplete() {
			return nil, fmt.Errorf("%w: group %s has %d of %d results",
				ErrGroupStageIncomplete, g.Name(), len(g.results), len(g.schedule))
		}
	}

	qualified := make([]models.Entrant, 0, len(groups)*advancePerGroup)
	for _, g := range groups {
		table := g.Standings()
		if len(table) > advancePerGroup {
			table = table[:advancePerGroup]
		}
		for _, row := range table {
			qualified = append(qualified, row.Entrant)
		}
	}
	return qualified, nil
}
