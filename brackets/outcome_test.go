package brackets

import (
	"errors"
	"testing"
)

func TestNewMatchOutcome(t *testing.T) {
	es := entrants(t, "A", "B")
	a, b := es[0], es[1]

	tests := []struct {
		name    string
		sets    []int
		winner  string
		setsA   int
		setsB   int
		wantErr error
	}{
		{name: "straight sets", sets: []int{11, 5, 11, 7}, winner: "A", setsA: 2, setsB: 0},
		{name: "five setter", sets: []int{11, 9, 8, 11, 11, 13, 11, 4, 9, 11}, winner: "B", setsA: 2, setsB: 3},
		{name: "drawn set ignored", sets: []int{10, 10, 11, 3}, winner: "A", setsA: 1, setsB: 0},
		{name: "tied sets", sets: []int{11, 5, 5, 11}, wantErr: ErrTiedOutcome},
		{name: "no sets", sets: nil, wantErr: ErrTiedOutcome},
		{name: "negative score", sets: []int{-1, 11}, wantErr: ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMatchOutcome(a, b, sets(tt.sets...))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Winner().Name != tt.winner {
				t.Errorf("winner = %s, want %s", got.Winner().Name, tt.winner)
			}
			if got.SetsA != tt.setsA || got.SetsB != tt.setsB {
				t.Errorf("sets = %d-%d, want %d-%d", got.SetsA, got.SetsB, tt.setsA, tt.setsB)
			}
			if got.Loser().ID == got.WinnerID {
				t.Errorf("loser equals winner")
			}
		})
	}
}

func TestNewMatchOutcomeRejectsSelfPlay(t *testing.T) {
	es := entrants(t, "A")
	if _, err := NewMatchOutcome(es[0], es[0], aWins); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestNewMatchOutcomeCopiesSets(t *testing.T) {
	es := entrants(t, "A", "B")
	in := sets(11, 5, 11, 7)
	got, err := NewMatchOutcome(es[0], es[1], in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in[0].A = 0
	if got.Sets[0].A != 11 {
		t.Errorf("outcome shares the caller's slice")
	}
}
