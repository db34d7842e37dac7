package models

import "time"

// SetScore is the points tally of a single set, from side A's point of view.
type SetScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// MatchOutcome is a completed match. Values are built through
// brackets.NewMatchOutcome, which guarantees a winner exists.
type MatchOutcome struct {
	SideA    Entrant    `json:"side_a"`
	SideB    Entrant    `json:"side_b"`
	Sets     []SetScore `json:"sets"`
	SetsA    int        `json:"sets_a"`
	SetsB    int        `json:"sets_b"`
	WinnerID EntrantID  `json:"winner_id"`
}

// Winner returns the side that took more sets.
func (m MatchOutcome) Winner() Entrant {
	if m.WinnerID == m.SideA.ID {
		return m.SideA
	}
	return m.SideB
}

func (m MatchOutcome) Loser() Entrant {
	if m.WinnerID == m.SideA.ID {
		return m.SideB
	}
	return m.SideA
}

// Involves reports whether the entrant played in this match.
func (m MatchOutcome) Involves(id EntrantID) bool {
	return m.SideA.ID == id || m.SideB.ID == id
}

// Pairing is an unordered scheduled pair. A always holds the entrant
// registered earlier within the group.
type Pairing struct {
	A Entrant `json:"a"`
	B Entrant `json:"b"`
}

// KnockoutMatch is a slot in the elimination tree. A nil side is either
// still pending (fed by the previous round) or vacant when Bye is set.
// Vacant matches sit under padding only and never get an entrant.
type KnockoutMatch struct {
	Round  int           `json:"round"`
	Index  int           `json:"index"`
	SideA  *Entrant      `json:"side_a,omitempty"`
	SideB  *Entrant      `json:"side_b,omitempty"`
	Result *MatchOutcome `json:"result,omitempty"`
	Bye    bool          `json:"bye"`
	Vacant bool          `json:"vacant,omitempty"`
}

// IsReady reports whether both sides are known and no result exists yet.
func (m KnockoutMatch) IsReady() bool {
	return m.SideA != nil && m.SideB != nil && m.Result == nil
}

// Advancing returns the entrant that leaves this match forward, if any.
func (m KnockoutMatch) Advancing() *Entrant {
	if m.Result != nil {
		w := m.Result.Winner()
		return &w
	}
	if m.Bye {
		if m.SideA != nil {
			return m.SideA
		}
		return m.SideB
	}
	return nil
}

// Stage names used when matches leave the state machine (archive, events).
const (
	StageGroup    = "group"
	StageKnockout = "knockout"
)

// MatchRecord is a flattened outcome with its coordinates in the event.
// Group is set for group matches, Round and Index for knockout matches.
type MatchRecord struct {
	TournamentID int          `json:"tournament_id"`
	Stage        string       `json:"stage"`
	Group        string       `json:"group,omitempty"`
	Round        int          `json:"round"`
	Index        int          `json:"index"`
	Outcome      MatchOutcome `json:"outcome"`
	RecordedAt   time.Time    `json:"recorded_at"`
}
