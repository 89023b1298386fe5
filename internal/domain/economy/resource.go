package economy

import (
	"fmt"
	"sort"
	"strings"
)

// ResourceKind identifies a team resource pool
type ResourceKind string

const (
	// ResourceEnergy is produced and drained continuously by operational buildings
	ResourceEnergy ResourceKind = "energy"

	// ResourceMinerals is the construction currency spent at placement
	ResourceMinerals ResourceKind = "minerals"
)

// Kinds returns every known resource kind in stable order
func Kinds() []ResourceKind {
	return []ResourceKind{ResourceEnergy, ResourceMinerals}
}

// CostMap is a one-time price expressed per resource kind
type CostMap map[ResourceKind]int

// IsFree reports whether the cost has no positive component
func (c CostMap) IsFree() bool {
	for _, amount := range c {
		if amount > 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the cost map
func (c CostMap) Clone() CostMap {
	out := make(CostMap, len(c))
	for kind, amount := range c {
		out[kind] = amount
	}
	return out
}

func (c CostMap) String() string {
	if len(c) == 0 {
		return "free"
	}
	parts := make([]string, 0, len(c))
	for kind, amount := range c {
		parts = append(parts, fmt.Sprintf("%d %s", amount, kind))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// RateMap is a continuous per-second flow expressed per resource kind
type RateMap map[ResourceKind]float64

// Add merges another rate map into this one, returning the receiver
func (r RateMap) Add(other RateMap) RateMap {
	for kind, rate := range other {
		r[kind] += rate
	}
	return r
}

// Total sums all rates across kinds
func (r RateMap) Total() float64 {
	total := 0.0
	for _, rate := range r {
		total += rate
	}
	return total
}
