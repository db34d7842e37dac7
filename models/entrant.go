package models

// EntrantID is the small-integer identity handed out at registration.
// Group membership, standings and bracket slots are all keyed by it.
type EntrantID int

type Entrant struct {
	ID    EntrantID `json:"id"`
	Name  string    `json:"name"`
	Seed  int       `json:"seed"`
	Group string    `json:"group,omitempty"`
}
