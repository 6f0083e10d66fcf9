package micromap

import (
	"math"

	"gonum.org/v1/plot"

	"github.com/cartoviz/micromap/pkg/errors"
)

// SpacingPolicy selects how group rows map to vertical positions.
type SpacingPolicy string

const (
	// SpacingEqual gives each group its own vertical scale: rows occupy
	// positions 1..size and the scale is size+1. Row positions are not
	// comparable across groups.
	SpacingEqual SpacingPolicy = "equal"

	// SpacingMax puts all groups on one shared scale: with M the largest
	// group size, rows occupy positions M-size+1..M (top aligned) and
	// every group's scale is M+1, so equal heights across groups mean
	// equal ranks.
	SpacingMax SpacingPolicy = "max"
)

// ValidSpacing reports whether p names a known spacing policy.
func ValidSpacing(p SpacingPolicy) bool {
	return p == SpacingEqual || p == SpacingMax
}

// domainMargin is the symmetric fraction of the pretty range added to each
// side of a variable's horizontal domain.
const domainMargin = 0.05

// GroupExtent is the vertical placement of one group's rows.
type GroupExtent struct {
	Group    int     `json:"group"`
	RowStart int     `json:"row_start"` // first occupied vertical position
	RowEnd   int     `json:"row_end"`   // last occupied vertical position
	Scale    float64 `json:"scale"`     // vertical zoom for the panel
}

// AxisDomain is the shared horizontal extent of one variable, applied to
// every group's panel so axes stay pixel-aligned vertically.
type AxisDomain struct {
	Variable string    `json:"variable"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Ticks    []float64 `json:"ticks,omitempty"` // major tick positions inside [Min, Max]

	// Degenerate marks a constant variable whose zero-width domain was
	// padded to a minimal non-zero width. Legitimate data, not an error.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Layout is the coordinate mapping shared by all panels: per-group vertical
// extents under the chosen spacing policy and per-variable horizontal
// domains.
type Layout struct {
	Spacing SpacingPolicy         `json:"spacing"`
	Extents []GroupExtent         `json:"extents"`
	Domains map[string]AxisDomain `json:"domains"`
}

// Extent returns the extent of a 1-based group number.
func (l *Layout) Extent(group int) (GroupExtent, bool) {
	for _, e := range l.Extents {
		if e.Group == group {
			return e, true
		}
	}
	return GroupExtent{}, false
}

// RequireFiniteDomains returns DEGENERATE_DOMAIN if any variable's domain
// was padded out from a constant column. The build treats constant
// statistics as legitimate data; callers that cannot present a padded axis
// refuse them here instead.
func (l *Layout) RequireFiniteDomains() error {
	for name, d := range l.Domains {
		if d.Degenerate {
			return errors.New(errors.ErrCodeDegenerateDomain,
				"variable %q is constant, its axis domain was padded", name)
		}
	}
	return nil
}

// ComputeLayout computes vertical extents for each group and one shared
// horizontal domain per plotted variable.
func ComputeLayout(groups []Group, spacing SpacingPolicy, vars []VariableSpec) (*Layout, error) {
	if !ValidSpacing(spacing) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown spacing policy %q", spacing)
	}
	n := 0
	maxSize := 0
	for _, g := range groups {
		n += g.Size()
		if g.Size() > maxSize {
			maxSize = g.Size()
		}
	}
	if n == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no regions to lay out")
	}

	l := &Layout{
		Spacing: spacing,
		Extents: make([]GroupExtent, len(groups)),
		Domains: make(map[string]AxisDomain, len(vars)),
	}

	for i, g := range groups {
		size := g.Size()
		e := GroupExtent{Group: g.Number}
		switch spacing {
		case SpacingEqual:
			e.RowStart, e.RowEnd = 1, size
			e.Scale = float64(size + 1)
		case SpacingMax:
			e.RowStart, e.RowEnd = maxSize-size+1, maxSize
			e.Scale = float64(maxSize + 1)
		}
		l.Extents[i] = e
	}

	for _, v := range vars {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, g := range groups {
			for _, r := range g.Regions {
				val := r.Values[v.Name]
				lo = math.Min(lo, val)
				hi = math.Max(hi, val)
			}
		}
		l.Domains[v.Name] = prettyDomain(v.Name, lo, hi)
	}
	return l, nil
}

// prettyDomain rounds [lo, hi] to a human-friendly tick range and extends it
// symmetrically by domainMargin. A constant variable produces a zero-width
// interval; that is handled by padding to a minimal non-zero width rather
// than rejecting, since constant data is legitimate.
func prettyDomain(name string, lo, hi float64) AxisDomain {
	if lo == hi {
		half := math.Max(0.5, math.Abs(lo)*domainMargin)
		return AxisDomain{
			Variable:   name,
			Min:        lo - half,
			Max:        hi + half,
			Ticks:      []float64{lo},
			Degenerate: true,
		}
	}

	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	var major []float64
	for _, t := range ticks {
		if t.Label != "" {
			major = append(major, t.Value)
		}
	}

	min, max := lo, hi
	if len(major) >= 2 {
		// Snap outward to the pretty tick step.
		step := major[1] - major[0]
		min = math.Floor(lo/step) * step
		max = math.Ceil(hi/step) * step
	}

	margin := (max - min) * domainMargin
	return AxisDomain{
		Variable: name,
		Min:      min - margin,
		Max:      max + margin,
		Ticks:    major,
	}
}
