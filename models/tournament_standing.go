package models

// StandingsEntry is one derived row of a group table. Rank is 1-based and
// never shared between entrants.
type StandingsEntry struct {
	Entrant  Entrant `json:"entrant"`
	Points   int     `json:"points"`
	Rank     int     `json:"rank"`
	Played   int     `json:"played"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	SetsWon  int     `json:"sets_won"`
	SetsLost int     `json:"sets_lost"`
}
