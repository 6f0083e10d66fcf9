package micromap

// Read accessors and the selection surface consumed by the rendering/event
// layer. The engine never performs a highlight itself; it supplies the
// index and color translations each direction needs.

// Config returns a copy of the active configuration.
func (d *Display) Config() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Variables returns the canonical resolved variable list, grouping variable
// first.
func (d *Display) Variables() []VariableSpec {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]VariableSpec(nil), d.st.vars...)
}

// Groups returns the ordered groups. The slice is a copy; the regions are
// shared.
func (d *Display) Groups() []Group {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Group(nil), d.st.groups...)
}

// Layout returns the active coordinate mapping.
func (d *Display) Layout() *Layout {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.st.layout
}

// LinkIndex returns the row ↔ polygon-part index of a 1-based group number.
func (d *Display) LinkIndex(group int) (*GroupLinkIndex, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.st.links {
		if d.st.links[i].Group == group {
			return &d.st.links[i], true
		}
	}
	return nil, false
}

// Colors returns the region-id → color table.
func (d *Display) Colors() ColorTable {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(ColorTable, len(d.st.colors))
	for k, v := range d.st.colors {
		out[k] = v
	}
	return out
}

// RowColors returns the per-row color sequence, length equal to the largest
// group size.
func (d *Display) RowColors() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.st.rowColors...)
}

// Attributes returns the resolved per-row attribute overrides, every slice
// of length n.
func (d *Display) Attributes() map[string][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.st.attrs
}

// region looks a region up by id under the read lock.
func (d *Display) region(id string) (*Region, bool) {
	for _, r := range d.st.regions {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Select marks regions as selected by id, propagating through the link
// group so linked displays observe the same selection.
func (d *Display) Select(ids ...string) {
	d.mu.RLock()
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := d.region(id); ok {
			keys = append(keys, r.LinkKey)
		}
	}
	d.mu.RUnlock()
	d.link.set(keys, true)
}

// Deselect clears the selection of regions by id.
func (d *Display) Deselect(ids ...string) {
	d.mu.RLock()
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := d.region(id); ok {
			keys = append(keys, r.LinkKey)
		}
	}
	d.mu.RUnlock()
	d.link.set(keys, false)
}

// ClearSelection empties the shared selection.
func (d *Display) ClearSelection() {
	d.link.clear()
}

// IsSelected reports whether a region is selected, by id.
func (d *Display) IsSelected(id string) bool {
	d.mu.RLock()
	r, ok := d.region(id)
	d.mu.RUnlock()
	return ok && d.link.isSelected(r.LinkKey)
}

// SelectedRows returns the selected row positions of a group, used to
// translate polygon-select events into point highlights.
func (d *Display) SelectedRows(group int) []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var rows []int
	for _, g := range d.st.groups {
		if g.Number != group {
			continue
		}
		for _, r := range g.Regions {
			if d.link.isSelected(r.LinkKey) {
				rows = append(rows, r.Row)
			}
		}
	}
	return rows
}

// PartColor returns the fill color for a polygon part in a group's map
// panel: the owning row's data color for in-group parts, the highlight
// sentinel when that region is selected, and the background sentinel for
// parts outside the panel.
func (d *Display) PartColor(group, part int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for gi := range d.st.links {
		if d.st.links[gi].Group != group {
			continue
		}
		row, ok := d.st.links[gi].RowForPart(part)
		if !ok {
			return SentinelBackground
		}
		for _, g := range d.st.groups {
			if g.Number != group {
				continue
			}
			r := g.Regions[row-1]
			if d.link.isSelected(r.LinkKey) {
				return SentinelHighlight
			}
			return d.st.colors[r.ID]
		}
	}
	return SentinelBackground
}
