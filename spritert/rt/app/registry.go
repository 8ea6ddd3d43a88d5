package app

import (
	"fmt"
	"sort"

	"github.com/gekko3d/gekko2d/spritert/rt/core"
)

// atlasRegistry maps atlas names to the atlas currently on their layer.
type atlasRegistry struct {
	byName map[string]core.Atlas
}

func newAtlasRegistry() *atlasRegistry {
	return &atlasRegistry{byName: make(map[string]core.Atlas)}
}

func (r *atlasRegistry) get(name string) (core.Atlas, error) {
	a, ok := r.byName[name]
	if !ok {
		return core.Atlas{}, fmt.Errorf("atlas %q: %w", name, core.ErrAtlasNotFound)
	}
	return a, nil
}

func (r *atlasRegistry) set(name string, a core.Atlas) {
	r.byName[name] = a
}

// refreshLayer points every name bound to a's layer at a, so lookups after a
// hot-swap see the new grid. It returns the names it rebound.
func (r *atlasRegistry) refreshLayer(a core.Atlas) []string {
	var rebound []string
	for n, existing := range r.byName {
		if existing.Index == a.Index {
			r.byName[n] = a
			rebound = append(rebound, n)
		}
	}
	sort.Strings(rebound)
	return rebound
}

func (r *atlasRegistry) names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
