package micromap

// Snapshot is the serialization format for a computed display, consumed by
// the CLI, the HTTP API, and rendering sinks. It carries everything a panel
// grid needs (groups, row order, coordinate extents, link tables, colors)
// and nothing about pixels or widgets.
type Snapshot struct {
	Spacing   SpacingPolicy         `json:"spacing"`
	LinkGroup string                `json:"link_group"`
	Variables []VariableSpec        `json:"variables"`
	Groups    []SnapshotGroup       `json:"groups"`
	Extents   []GroupExtent         `json:"extents"`
	Domains   map[string]AxisDomain `json:"domains"`
	RowColors []string              `json:"row_colors"`

	// Sentinels are repeated here so consumers need no compile-time
	// dependency to render structural background and highlight states.
	Background string `json:"background"`
	Highlight  string `json:"highlight"`
}

// SnapshotGroup is one display row band.
type SnapshotGroup struct {
	Number int           `json:"number"`
	Rows   []SnapshotRow `json:"rows"`
}

// SnapshotRow is one region's row: identity, plotted values, color, and the
// polygon parts it owns.
type SnapshotRow struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Row      int                `json:"row"`
	LinkKey  string             `json:"link_key"`
	Values   map[string]float64 `json:"values"`
	Color    string             `json:"color"`
	Parts    []int              `json:"parts"`
	Selected bool               `json:"selected,omitempty"`
}

// Snapshot exports the current display state. The result is detached: later
// rebuilds or selections do not modify it.
func (d *Display) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := &Snapshot{
		Spacing:    d.st.layout.Spacing,
		LinkGroup:  d.cfg.LinkGroup,
		Variables:  append([]VariableSpec(nil), d.st.vars...),
		Extents:    append([]GroupExtent(nil), d.st.layout.Extents...),
		Domains:    make(map[string]AxisDomain, len(d.st.layout.Domains)),
		RowColors:  append([]string(nil), d.st.rowColors...),
		Background: SentinelBackground,
		Highlight:  SentinelHighlight,
	}
	for k, v := range d.st.layout.Domains {
		s.Domains[k] = v
	}

	for gi, g := range d.st.groups {
		sg := SnapshotGroup{Number: g.Number, Rows: make([]SnapshotRow, g.Size())}
		for ri, r := range g.Regions {
			row := SnapshotRow{
				ID:       r.ID,
				Name:     r.Name,
				Row:      r.Row,
				LinkKey:  r.LinkKey,
				Values:   make(map[string]float64, len(r.Values)),
				Color:    d.st.colors[r.ID],
				Selected: d.link.isSelected(r.LinkKey),
			}
			for k, v := range r.Values {
				row.Values[k] = v
			}
			row.Parts = append(row.Parts, d.st.links[gi].Forward[r.Row]...)
			sg.Rows[ri] = row
		}
		s.Groups = append(s.Groups, sg)
	}
	return s
}
