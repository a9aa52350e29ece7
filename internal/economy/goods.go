// Package economy provides the settlement's resource stockpile and buildings.
package economy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownResource is returned when a resource name has no ResourceKind.
var ErrUnknownResource = errors.New("unknown resource")

// ResourceKind enumerates the resources a settlement stores.
type ResourceKind uint8

const (
	Food ResourceKind = iota
	Firewood
	Tools
	Medicine
)

// NumResources is the total number of resource kinds.
const NumResources = 4

var resourceNames = [NumResources]string{"Food", "Firewood", "Tools", "Medicine"}

// Kinds returns every resource kind in declaration order.
func Kinds() []ResourceKind {
	return []ResourceKind{Food, Firewood, Tools, Medicine}
}

// Name returns the display name of the resource kind.
func (k ResourceKind) Name() string {
	if int(k) < len(resourceNames) {
		return resourceNames[k]
	}
	return fmt.Sprintf("resource(%d)", uint8(k))
}

// String implements fmt.Stringer.
func (k ResourceKind) String() string { return k.Name() }

// ParseResourceKind maps a resource name (case-insensitive) to its kind.
func ParseResourceKind(name string) (ResourceKind, error) {
	for i, n := range resourceNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ResourceKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResource, name)
}

// Resource is a named quantity. Quantities may go negative between
// consumption and the next survival check.
type Resource struct {
	Kind     ResourceKind `json:"kind"`
	Quantity int          `json:"quantity"`
}

// Name returns the resource's display name.
func (r Resource) Name() string { return r.Kind.Name() }

// Stockpile is a fixed-size array holding the quantity of each resource kind.
type Stockpile [NumResources]int

// Get returns the quantity of kind.
func (s Stockpile) Get(kind ResourceKind) int {
	return s[kind]
}

// Set overwrites the quantity of kind.
func (s *Stockpile) Set(kind ResourceKind, qty int) {
	s[kind] = qty
}

// Add adjusts the quantity of kind by delta (which may be negative).
func (s *Stockpile) Add(kind ResourceKind, delta int) {
	s[kind] += delta
}

// Resources returns the stockpile as Resource records in kind order.
func (s Stockpile) Resources() []Resource {
	out := make([]Resource, 0, NumResources)
	for _, k := range Kinds() {
		out = append(out, Resource{Kind: k, Quantity: s[k]})
	}
	return out
}

// StockpileFromNames builds a stockpile from a name→quantity map. Every
// name must resolve to a ResourceKind; kinds absent from the map are zero.
func StockpileFromNames(m map[string]int) (Stockpile, error) {
	var s Stockpile
	for name, qty := range m {
		kind, err := ParseResourceKind(name)
		if err != nil {
			return Stockpile{}, err
		}
		s[kind] = qty
	}
	return s, nil
}
