// Package tiers holds the capability-tier registry: which model identifiers
// the scanner cares about, how capable each one is relative to the others,
// and the default requests-per-minute limit a standard account gets for it.
package tiers

import (
	"fmt"

	"github.com/keysift/keysift/internal/core"
)

// Default baselines, most capable tier first. These match the service's
// published standard-account limits.
var defaultBaselines = []struct {
	tier     core.Tier
	baseline int
}{
	{"gpt-4-32k", 10},
	{"gpt-4", 200},
	{"gpt-3.5-turbo", 3500},
}

// Registry maps capability tiers to their default rate-limit baselines and
// fixes the capability ranking. Immutable after construction.
type Registry struct {
	order     []core.Tier // most capable first
	baselines map[core.Tier]int
}

// NewRegistry returns the registry with the built-in tier set.
func NewRegistry() *Registry {
	r := &Registry{baselines: make(map[core.Tier]int, len(defaultBaselines))}
	for _, d := range defaultBaselines {
		r.order = append(r.order, d.tier)
		r.baselines[d.tier] = d.baseline
	}
	return r
}

// NewRegistryWithOverrides applies per-tier baseline overrides on top of the
// defaults. Overrides for unknown tiers are rejected: the tier set itself is
// closed, only the numbers are tunable.
func NewRegistryWithOverrides(overrides map[string]int) (*Registry, error) {
	r := NewRegistry()
	for name, baseline := range overrides {
		t := core.Tier(name)
		if _, ok := r.baselines[t]; !ok {
			return nil, fmt.Errorf("baseline override for unknown tier %q", name)
		}
		if baseline <= 0 {
			return nil, fmt.Errorf("baseline override for %q must be positive, got %d", name, baseline)
		}
		r.baselines[t] = baseline
	}
	return r, nil
}

// Known reports whether the model identifier is a tracked capability tier.
func (r *Registry) Known(id string) bool {
	_, ok := r.baselines[core.Tier(id)]
	return ok
}

// Baseline returns the default rate limit for a tier and whether the tier is
// tracked at all.
func (r *Registry) Baseline(t core.Tier) (int, bool) {
	b, ok := r.baselines[t]
	return b, ok
}

// Order returns the tiers most capable first. The caller must not mutate the
// returned slice.
func (r *Registry) Order() []core.Tier {
	return r.order
}

// Filter keeps only tracked tiers from a service model listing, preserving
// the service's own ordering.
func (r *Registry) Filter(ids []string) []core.Tier {
	var out []core.Tier
	for _, id := range ids {
		if r.Known(id) {
			out = append(out, core.Tier(id))
		}
	}
	return out
}

// Best picks the most capable tier present in the discovered set, or "" when
// the set holds nothing tracked. Pure function of the input.
func (r *Registry) Best(discovered []core.Tier) core.Tier {
	present := make(map[core.Tier]bool, len(discovered))
	for _, t := range discovered {
		present[t] = true
	}
	for _, t := range r.order {
		if present[t] {
			return t
		}
	}
	return ""
}
