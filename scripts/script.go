// Package scripts drives a tournament from a YAML script, the
// non-interactive counterpart of a live scoring view.
package scripts

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is the on-disk format:
//
//	name: Office Cup
//	groups: 2
//	advance: 2
//	players: [Alice, Bob, Carol, Dave]   # seed order
//	group_results:
//	  - {group: G1, a: Alice, b: Dave, score: "11-5,11-7"}
//	knockout_results:
//	  - {a: Alice, b: Carol, score: "11-9,9-11,11-8"}
//	  - {round: 0, match: 1, score: "11-3,11-4"}
type Script struct {
	Name            string           `yaml:"name"`
	Groups          *int             `yaml:"groups,omitempty"`
	Advance         *int             `yaml:"advance,omitempty"`
	Players         []string         `yaml:"players"`
	GroupResults    []GroupResult    `yaml:"group_results,omitempty"`
	KnockoutResults []KnockoutResult `yaml:"knockout_results,omitempty"`
}

type GroupResult struct {
	Group string `yaml:"group"`
	A     string `yaml:"a"`
	B     string `yaml:"b"`
	Score string `yaml:"score"`
}

// KnockoutResult addresses a match either by the two player names or by
// its round/match coordinates.
type KnockoutResult struct {
	Round *int   `yaml:"round,omitempty"`
	Match *int   `yaml:"match,omitempty"`
	A     string `yaml:"a,omitempty"`
	B     string `yaml:"b,omitempty"`
	Score string `yaml:"score"`
}

func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("script is empty")
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if s.Name == "" {
		s.Name = "Table Tennis Tournament"
	}
	for i, kr := range s.KnockoutResults {
		if (kr.Round == nil) != (kr.Match == nil) {
			return nil, fmt.Errorf("knockout result %d: round and match must be given together", i+1)
		}
		byName := kr.A != "" && kr.B != ""
		byCoord := kr.Round != nil && kr.Match != nil
		if byName == byCoord {
			return nil, fmt.Errorf("knockout result %d: give either a/b names or round/match", i+1)
		}
	}
	return &s, nil
}

func Load(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return Parse(bytes.NewReader(raw))
}
