package scripts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/services"
)

const officeCup = `
name: Office Cup
groups: 2
advance: 1
players: [Alice, Bob, Carol, Dave]
group_results:
  - {group: G1, a: Alice, b: Dave, score: "11-5,11-7"}
  - {group: G2, a: Carol, b: Bob, score: "11-9,9-11,11-8"}
knockout_results:
  - {a: Carol, b: Alice, score: "7-11,11-13"}
`

func newService() services.TournamentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewTournamentService(services.Defaults{GroupCount: 2, AdvancePerGroup: 2}, nil, nil, nil, logger)
}

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(officeCup))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "Office Cup" || *s.Groups != 2 || *s.Advance != 1 {
		t.Errorf("header = %q %d %d", s.Name, *s.Groups, *s.Advance)
	}
	if len(s.Players) != 4 || len(s.GroupResults) != 2 || len(s.KnockoutResults) != 1 {
		t.Errorf("script = %+v", s)
	}
}

func TestParseDefaultsAndErrors(t *testing.T) {
	s, err := Parse(strings.NewReader("players: [A, B]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "Table Tennis Tournament" || s.Groups != nil {
		t.Errorf("defaults not applied: %+v", s)
	}

	bad := []string{
		"",
		"players: [A, B]\nunknown: 1\n",
		"knockout_results:\n  - {score: \"11-3,11-4\"}\n",
		"knockout_results:\n  - {round: 0, match: 0, a: A, b: B, score: \"11-3,11-4\"}\n",
		"knockout_results:\n  - {round: 0, a: A, b: B, score: \"11-5,11-7\"}\n",
		"knockout_results:\n  - {match: 1, a: A, b: B, score: \"11-5,11-7\"}\n",
	}
	for _, in := range bad {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cup.yaml")
	if err := os.WriteFile(path, []byte(officeCup), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "Office Cup" {
		t.Errorf("name = %q", s.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestRun(t *testing.T) {
	s, err := Parse(strings.NewReader(officeCup))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	got, err := Run(context.Background(), newService(), s, &out)
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if got.Status != models.StatusCompleted || got.Champion == nil || got.Champion.Name != "Alice" {
		t.Fatalf("tournament = %s, champion %v", got.Status, got.Champion)
	}

	text := out.String()
	for _, want := range []string{
		"Office Cup (4 players, 2 groups, top 1 advance)",
		"Group G1",
		"Alice vs Dave",
		"1. Alice - 2 pts",
		"2. Dave - 1 pts",
		"1. Carol - 2 pts",
		"Advancing to knockout:",
		"Final",
		"Alice vs Carol: 11-7,13-11, Alice wins",
		"Champion: Alice",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunStopsOnIncompleteGroupStage(t *testing.T) {
	s, err := Parse(strings.NewReader(`
players: [A, B, C, D]
groups: 2
advance: 1
group_results:
  - {group: G1, a: A, b: D, score: "11-5,11-7"}
`))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if _, err := Run(context.Background(), newService(), s, &out); !errors.Is(err, brackets.ErrGroupStageIncomplete) {
		t.Fatalf("expected ErrGroupStageIncomplete, got %v", err)
	}
}

func TestRunByeAndCoordinates(t *testing.T) {
	// Three qualifiers: C gets a bye straight into the final.
	s, err := Parse(strings.NewReader(`
players: [A, B, C]
groups: 3
advance: 1
knockout_results:
  - {round: 0, match: 0, score: "11-3,11-4"}
`))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	got, err := Run(context.Background(), newService(), s, &out)
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if got.Champion != nil {
		t.Errorf("champion decided before the final: %v", got.Champion)
	}
	text := out.String()
	for _, want := range []string{"C receives a bye", "A vs C: to be played", "Champion: undecided"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunRejectsHalfCoordinates(t *testing.T) {
	// Built by hand to bypass Parse: Run must not dereference a missing match.
	round := 0
	s := &Script{
		Name:            "Cup",
		Players:         []string{"A", "B"},
		GroupResults:    []GroupResult{{Group: "G1", A: "A", B: "B", Score: "11-5,11-7"}},
		KnockoutResults: []KnockoutResult{{Round: &round, A: "A", B: "C", Score: "11-5,11-7"}},
	}
	one := 1
	s.Groups, s.Advance = &one, &one

	var out bytes.Buffer
	_, err := Run(context.Background(), newService(), s, &out)
	if err == nil || !strings.Contains(err.Error(), "no playable knockout match") {
		t.Fatalf("expected a lookup error, got %v", err)
	}
}
