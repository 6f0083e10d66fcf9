package micromap

import (
	"sort"

	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/geo"
)

// BackgroundRow is the sentinel row for polygon parts whose owning region is
// not in the panel's group. The selection layer renders such parts with the
// reserved background color and never treats them as selectable points.
const BackgroundRow = -1

// GroupLinkIndex is the bidirectional row ↔ polygon-part index for one
// group's map panel. Forward and backward are exact inverses restricted to
// the parts owned by the group's regions; every other part in the geometry
// set maps backward to BackgroundRow.
type GroupLinkIndex struct {
	Group    int           `json:"group"`
	Forward  map[int][]int `json:"forward"`  // row -> part draw indices (len >= 1 per row)
	Backward map[int]int   `json:"backward"` // part draw index -> row, or BackgroundRow
}

// PartsForRow translates a scatterplot row to the polygon parts to
// highlight or recolor. The returned slice is shared; callers must not
// mutate it.
func (ix *GroupLinkIndex) PartsForRow(row int) []int {
	return ix.Forward[row]
}

// RowForPart translates a polygon part to its scatterplot row. ok is false
// for background parts, which have no row in this panel.
func (ix *GroupLinkIndex) RowForPart(part int) (row int, ok bool) {
	row, known := ix.Backward[part]
	if !known || row == BackgroundRow {
		return 0, false
	}
	return row, true
}

// BuildLinkIndex builds one GroupLinkIndex per group from the geometry
// provider. It also writes each region's polygon reference and part count
// back onto the region.
//
// Both tables are derived, never persisted: any change to grouping,
// ordering, or the active region set rebuilds them from scratch.
func BuildLinkIndex(groups []Group, provider geo.PartProvider) ([]GroupLinkIndex, error) {
	all := provider.AllParts()

	out := make([]GroupLinkIndex, len(groups))
	for gi, g := range groups {
		ix := GroupLinkIndex{
			Group:    g.Number,
			Forward:  make(map[int][]int, g.Size()),
			Backward: make(map[int]int, len(all)),
		}
		for _, part := range all {
			ix.Backward[part.DrawIndex] = BackgroundRow
		}

		for _, r := range g.Regions {
			parts, err := provider.Parts(r.ID)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err,
					"geometry lookup for region %q", r.ID)
			}
			if len(parts) == 0 {
				return nil, errors.New(errors.ErrCodeInternal,
					"region %q has no polygon parts", r.ID)
			}
			r.PolygonRef = r.ID
			r.PartCount = len(parts)

			indices := make([]int, len(parts))
			for i, p := range parts {
				indices[i] = p.DrawIndex
				ix.Backward[p.DrawIndex] = r.Row
			}
			sort.Ints(indices)
			ix.Forward[r.Row] = indices
		}
		out[gi] = ix
	}
	return out, nil
}
