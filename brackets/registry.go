package brackets

import (
	"fmt"
	"strings"

	"github.com/Dosada05/pingpong-tournament/models"
)

// Registry hands out entrant ids. Ids are dense and start at 1 so they
// can double as indexes into per-entrant slices.
type Registry struct {
	entrants []models.Entrant
	byName   map[string]models.EntrantID
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]models.EntrantID)}
}

// Register adds an entrant. Names are trimmed and must be unique; seeds
// must be positive.
func (r *Registry) Register(name string, seed int) (models.Entrant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Entrant{}, fmt.Errorf("%w: entrant name is required", ErrInvalidConfiguration)
	}
	if seed < 1 {
		return models.Entrant{}, fmt.Errorf("%w: seed for %q must be positive, got %d", ErrInvalidConfiguration, name, seed)
	}
	if _, exists := r.byName[name]; exists {
		return models.Entrant{}, fmt.Errorf("%w: duplicate entrant name %q", ErrInvalidConfiguration, name)
	}

	e := models.Entrant{
		ID:   models.EntrantID(len(r.entrants) + 1),
		Name: name,
		Seed: seed,
	}
	r.entrants = append(r.entrants, e)
	r.byName[name] = e.ID
	return e, nil
}

func (r *Registry) Get(id models.EntrantID) (models.Entrant, bool) {
	if id < 1 || int(id) > len(r.entrants) {
		return models.Entrant{}, false
	}
	return r.entrants[id-1], true
}

func (r *Registry) Lookup(name string) (models.Entrant, bool) {
	id, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return models.Entrant{}, false
	}
	return r.Get(id)
}

func (r *Registry) setGroup(id models.EntrantID, group string) {
	r.entrants[id-1].Group = group
}

// All returns a copy of every entrant in registration order.
func (r *Registry) All() []models.Entrant {
	return append([]models.Entrant(nil), r.entrants...)
}

func (r *Registry) Len() int {
	return len(r.entrants)
}
