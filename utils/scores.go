package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/pingpong-tournament/models"
)

var ErrInvalidScoreFormat = errors.New("invalid score format")

// ParseSets reads a comma separated list of set scores such as
// "11-7, 7-11, 11-9". Each set is "<points A>-<points B>".
func ParseSets(text string) ([]models.SetScore, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: no sets given", ErrInvalidScoreFormat)
	}

	parts := strings.Split(text, ",")
	sets := make([]models.SetScore, 0, len(parts))
	for i, part := range parts {
		a, b, ok := strings.Cut(strings.TrimSpace(part), "-")
		if !ok {
			return nil, fmt.Errorf("%w: set %d %q must look like 11-7", ErrInvalidScoreFormat, i+1, strings.TrimSpace(part))
		}
		pa, errA := strconv.Atoi(strings.TrimSpace(a))
		pb, errB := strconv.Atoi(strings.TrimSpace(b))
		if errA != nil || errB != nil || pa < 0 || pb < 0 {
			return nil, fmt.Errorf("%w: set %d %q has non-numeric points", ErrInvalidScoreFormat, i+1, strings.TrimSpace(part))
		}
		sets = append(sets, models.SetScore{A: pa, B: pb})
	}
	return sets, nil
}

// FormatSets is the inverse of ParseSets.
func FormatSets(sets []models.SetScore) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = fmt.Sprintf("%d-%d", s.A, s.B)
	}
	return strings.Join(parts, ",")
}
