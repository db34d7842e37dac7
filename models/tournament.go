package models

import "time"

// TournamentStatus tracks which stage of the event is running.
type TournamentStatus string

const (
	StatusGroupStage TournamentStatus = "group_stage"
	StatusKnockout   TournamentStatus = "knockout"
	StatusCompleted  TournamentStatus = "completed"
)

// Tournament is the read model returned to the view layers. It is a
// snapshot; mutating it has no effect on the running event.
type Tournament struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Status          TournamentStatus `json:"status"`
	GroupCount      int              `json:"group_count"`
	AdvancePerGroup int              `json:"advance_per_group"`
	CreatedAt       time.Time        `json:"created_at"`

	Entrants []Entrant `json:"entrants"`
	Groups   []Group   `json:"groups,omitempty"`
	Bracket  *Bracket  `json:"bracket,omitempty"`
	Champion *Entrant  `json:"champion,omitempty"`
}

// Group is the read model of a round-robin group.
type Group struct {
	Name      string           `json:"name"`
	Members   []Entrant        `json:"members"`
	Schedule  []Pairing        `json:"schedule"`
	Results   []MatchOutcome   `json:"results"`
	Standings []StandingsEntry `json:"standings"`
	Complete  bool             `json:"complete"`
}

type BracketRound struct {
	Name    string          `json:"name"`
	Matches []KnockoutMatch `json:"matches"`
}

// Bracket is the read model of the elimination tree.
type Bracket struct {
	Qualifiers []Entrant      `json:"qualifiers"`
	Rounds     []BracketRound `json:"rounds"`
	Champion   *Entrant       `json:"champion,omitempty"`
}
