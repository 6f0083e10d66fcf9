package micromap

// Region is one spatial/statistical unit of the display. The engine holds
// only an opaque polygon reference and part count; the geometry itself lives
// with the geo collaborator.
type Region struct {
	ID     string             // stable identifier (value of the id variable)
	Name   string             // display name shown in the label panel
	Values map[string]float64 // statistic values keyed by variable name

	Group int // 1-based group assignment
	Row   int // 1-based row position within the group

	PolygonRef string // opaque geometry identifier
	PartCount  int    // number of constituent polygon parts

	// LinkKey couples this region to peers in other displays sharing a
	// link group. Unique across the display; defaults to the zero-based
	// index string when the caller supplies none.
	LinkKey string
}

// Group is an ordered sequence of regions assigned the same group number.
// Regions are ordered by row position (1..len(Regions)).
type Group struct {
	Number  int
	Regions []*Region
}

// Size returns the number of regions in the group.
func (g *Group) Size() int { return len(g.Regions) }
