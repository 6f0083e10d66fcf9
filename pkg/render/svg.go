// Package render provides reference sinks for computed micromap snapshots.
//
// The engine itself draws nothing; this package is the minimal consumer of
// its outputs, emitting a static SVG of the panel grid: a label column, one
// dot-strip column per variable, and a map column of part swatches colored
// from the color table. Interactive rendering and event wiring belong to a
// real GUI layer; this sink exists so artifacts can be inspected and so the
// row/coordinate/color contracts are exercised end to end.
package render

import (
	"bytes"
	"fmt"

	"github.com/cartoviz/micromap/pkg/micromap"
)

const (
	labelColWidth = 0.22 // fraction of frame width for the label column
	mapColWidth   = 0.22 // fraction for the map swatch column
	panelPad      = 6.0
	dotRadius     = 3.5
	fontSize      = 10.0
)

// SVG renders a snapshot into a static SVG document of the given pixel
// dimensions.
func SVG(s *micromap.Snapshot, width, height float64) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `<rect width="%.0f" height="%.0f" fill="#ffffff"/>`+"\n", width, height)

	nVars := len(s.Variables)
	varColWidth := (1 - labelColWidth - mapColWidth) / float64(nVars)

	// Total vertical span: sum of group scales plus padding between bands.
	var totalScale float64
	for _, e := range s.Extents {
		totalScale += e.Scale
	}
	bandPad := panelPad * float64(len(s.Groups)+1)
	unit := (height - bandPad) / totalScale

	y := panelPad
	for gi, g := range s.Groups {
		ext := s.Extents[gi]
		bandHeight := ext.Scale * unit

		// rowY maps a vertical row position to a pixel y within the band.
		rowY := func(pos int) float64 {
			return y + float64(pos)/ext.Scale*bandHeight
		}

		// Label column.
		for _, row := range g.Rows {
			ry := rowY(rowPosition(ext, row.Row))
			fmt.Fprintf(&buf,
				`<text x="%.1f" y="%.1f" font-size="%.0f" dominant-baseline="middle">%s</text>`+"\n",
				panelPad, ry, fontSize, escape(row.Name))
		}

		// One dot strip per variable, all groups sharing the variable's
		// axis domain.
		for vi, v := range s.Variables {
			dom := s.Domains[v.Name]
			x0 := (labelColWidth + float64(vi)*varColWidth) * width
			x1 := x0 + varColWidth*width
			fmt.Fprintf(&buf,
				`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#cccccc"/>`+"\n",
				x0, y, x1-x0, bandHeight)
			for _, row := range g.Rows {
				ry := rowY(rowPosition(ext, row.Row))
				frac := (row.Values[v.Name] - dom.Min) / (dom.Max - dom.Min)
				cx := x0 + panelPad + frac*(x1-x0-2*panelPad)
				fill := row.Color
				if row.Selected {
					fill = s.Highlight
				}
				fmt.Fprintf(&buf,
					`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
					cx, ry, dotRadius, fill)
			}
		}

		// Map column: one swatch per polygon part, row-colored. A real map
		// panel draws polygons here; the part swatches stand in for them.
		mapX := (1 - mapColWidth) * width
		swatch := (mapColWidth*width - 2*panelPad) / float64(maxParts(s))
		for _, row := range g.Rows {
			ry := rowY(rowPosition(ext, row.Row))
			fill := row.Color
			if row.Selected {
				fill = s.Highlight
			}
			for pi := range row.Parts {
				fmt.Fprintf(&buf,
					`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
					mapX+panelPad+float64(pi)*swatch, ry-dotRadius,
					swatch, 2*dotRadius, fill, s.Background)
			}
		}

		y += bandHeight + panelPad
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// rowPosition converts a group-local row rank to its vertical position under
// the snapshot's spacing policy.
func rowPosition(ext micromap.GroupExtent, row int) int {
	return ext.RowStart + row - 1
}

// maxParts returns the largest part count of any row, at least 1.
func maxParts(s *micromap.Snapshot) int {
	max := 1
	for _, g := range s.Groups {
		for _, r := range g.Rows {
			if len(r.Parts) > max {
				max = len(r.Parts)
			}
		}
	}
	return max
}

// escape replaces the XML special characters that can appear in display
// names.
func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
