package micromap

import (
	"sort"

	"github.com/cartoviz/micromap/pkg/errors"
)

// AssignGroups ranks regions by the grouping variable (descending, ties
// broken by display name ascending) and chunks the ranked sequence into
// groups of the given sizes: the top sizes[0] regions form group 1, and so
// on. Group and row assignments are written back onto the regions.
//
// The ordering is deterministic: identical input, including tie values,
// always produces identical group and row assignments.
func AssignGroups(regions []*Region, sizes []int, groupingVar string) ([]Group, error) {
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != len(regions) {
		return nil, errors.New(errors.ErrCodeInvalidGrouping,
			"group sizes sum to %d, have %d regions", total, len(regions))
	}

	ranked := make([]*Region, len(regions))
	copy(ranked, regions)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].Values[groupingVar], ranked[j].Values[groupingVar]
		if vi != vj {
			return vi > vj
		}
		return ranked[i].Name < ranked[j].Name
	})

	groups := make([]Group, len(sizes))
	next := 0
	for gi, size := range sizes {
		g := Group{Number: gi + 1, Regions: ranked[next : next+size]}
		for ri, r := range g.Regions {
			r.Group = g.Number
			r.Row = ri + 1
		}
		groups[gi] = g
		next += size
	}
	return groups, nil
}

// OrderRows re-sorts the rows of already-assigned groups by the grouping
// variable descending, name ascending, and renumbers row positions. It is
// used when the caller supplies explicit group membership instead of the
// ranked chunking performed by AssignGroups.
func OrderRows(groups []Group, groupingVar string) {
	for gi := range groups {
		g := &groups[gi]
		sort.SliceStable(g.Regions, func(i, j int) bool {
			vi, vj := g.Regions[i].Values[groupingVar], g.Regions[j].Values[groupingVar]
			if vi != vj {
				return vi > vj
			}
			return g.Regions[i].Name < g.Regions[j].Name
		})
		for ri, r := range g.Regions {
			r.Row = ri + 1
		}
	}
}
