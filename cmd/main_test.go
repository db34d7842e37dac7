package main

import (
	"testing"

	"github.com/Dosada05/pingpong-tournament/scripts"
)

func TestApplyRunFlags(t *testing.T) {
	three, one := 3, 1

	tests := []struct {
		name        string
		script      scripts.Script
		groupsSet   bool
		advanceSet  bool
		wantGroups  int
		wantAdvance int
	}{
		{name: "flag defaults fill an empty script", script: scripts.Script{}, wantGroups: 4, wantAdvance: 2},
		{name: "script wins over flag defaults", script: scripts.Script{Groups: &three, Advance: &one}, wantGroups: 3, wantAdvance: 1},
		{name: "explicit flags win over the script", script: scripts.Script{Groups: &three, Advance: &one}, groupsSet: true, advanceSet: true, wantGroups: 4, wantAdvance: 2},
		{name: "only groups set", script: scripts.Script{Groups: &three, Advance: &one}, groupsSet: true, wantGroups: 4, wantAdvance: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.script
			applyRunFlags(&s, 4, 2, tt.groupsSet, tt.advanceSet)
			if *s.Groups != tt.wantGroups || *s.Advance != tt.wantAdvance {
				t.Errorf("groups/advance = %d/%d, want %d/%d", *s.Groups, *s.Advance, tt.wantGroups, tt.wantAdvance)
			}
		})
	}
}
