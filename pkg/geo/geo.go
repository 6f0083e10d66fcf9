// Package geo defines the geometry collaborator interface the micromap
// engine links against.
//
// The engine never touches coordinates or projections. It only needs, for
// each region, the ordered list of polygon-part identifiers and their global
// draw-order indices, so that the link index can translate between
// scatterplot rows and map polygons. Actual polygon loading, simplification,
// and drawing live outside this module.
package geo

import (
	"github.com/cartoviz/micromap/pkg/errors"
)

// Part identifies one polygon part of a region. DrawIndex is the part's
// position in the map's global draw order and is unique across the whole
// geometry set.
type Part struct {
	ID        string
	DrawIndex int
}

// PartProvider is the geometry collaborator contract. Implementations must
// guarantee that Parts returns every part of the region, in draw order, and
// that AllParts enumerates the full geometry set; the link index depends on
// both for completeness.
type PartProvider interface {
	// Parts returns the polygon parts of a region, ordered by draw index.
	Parts(regionID string) ([]Part, error)

	// AllParts returns every part in the geometry set, ordered by draw index.
	AllParts() []Part
}

// MemoryProvider is an in-memory PartProvider, useful for tests and for
// callers that precompute part lists while loading shapefiles elsewhere.
type MemoryProvider struct {
	parts map[string][]Part
	all   []Part
	next  int
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{parts: make(map[string][]Part)}
}

// Add registers the parts of a region. Draw indices are assigned in call
// order, so registration order defines the map's draw order. Multi-part
// regions (islands) pass several part IDs.
func (p *MemoryProvider) Add(regionID string, partIDs ...string) {
	if len(partIDs) == 0 {
		partIDs = []string{regionID}
	}
	for _, id := range partIDs {
		part := Part{ID: id, DrawIndex: p.next}
		p.next++
		p.parts[regionID] = append(p.parts[regionID], part)
		p.all = append(p.all, part)
	}
}

// Parts implements PartProvider.
func (p *MemoryProvider) Parts(regionID string) ([]Part, error) {
	parts, ok := p.parts[regionID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no geometry for region %q", regionID)
	}
	out := make([]Part, len(parts))
	copy(out, parts)
	return out, nil
}

// AllParts implements PartProvider.
func (p *MemoryProvider) AllParts() []Part {
	out := make([]Part, len(p.all))
	copy(out, p.all)
	return out
}

// PartCount returns the number of parts registered for a region, zero if the
// region is unknown.
func (p *MemoryProvider) PartCount(regionID string) int {
	return len(p.parts[regionID])
}

var _ PartProvider = (*MemoryProvider)(nil)
