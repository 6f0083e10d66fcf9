package micromap

import (
	"math"
	"testing"

	"github.com/cartoviz/micromap/pkg/errors"
)

func sizedGroups(sizes ...int) []Group {
	groups := make([]Group, len(sizes))
	id := 0
	for gi, size := range sizes {
		g := Group{Number: gi + 1}
		for ri := 0; ri < size; ri++ {
			g.Regions = append(g.Regions, &Region{
				ID:     string(rune('a' + id)),
				Group:  gi + 1,
				Row:    ri + 1,
				Values: map[string]float64{"v": float64(id)},
			})
			id++
		}
		groups[gi] = g
	}
	return groups
}

func TestComputeLayoutEqualSpacing(t *testing.T) {
	layout, err := ComputeLayout(sizedGroups(5, 3, 4), SpacingEqual, nil)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	want := []GroupExtent{
		{Group: 1, RowStart: 1, RowEnd: 5, Scale: 6},
		{Group: 2, RowStart: 1, RowEnd: 3, Scale: 4},
		{Group: 3, RowStart: 1, RowEnd: 4, Scale: 5},
	}
	for i, w := range want {
		if layout.Extents[i] != w {
			t.Errorf("extent[%d] = %+v, want %+v", i, layout.Extents[i], w)
		}
	}
}

func TestComputeLayoutMaxSpacing(t *testing.T) {
	layout, err := ComputeLayout(sizedGroups(5, 3, 4), SpacingMax, nil)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	// Largest group has 5 rows, so every group shares scale 6 and is
	// top aligned at row 5.
	want := []GroupExtent{
		{Group: 1, RowStart: 1, RowEnd: 5, Scale: 6},
		{Group: 2, RowStart: 3, RowEnd: 5, Scale: 6},
		{Group: 3, RowStart: 2, RowEnd: 5, Scale: 6},
	}
	for i, w := range want {
		if layout.Extents[i] != w {
			t.Errorf("extent[%d] = %+v, want %+v", i, layout.Extents[i], w)
		}
	}
}

func TestComputeLayoutErrors(t *testing.T) {
	if _, err := ComputeLayout(sizedGroups(3), "spiral", nil); errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("unknown spacing error = %v, want INVALID_CONFIG", err)
	}
	if _, err := ComputeLayout(nil, SpacingEqual, nil); errors.GetCode(err) != errors.ErrCodeEmptyDataset {
		t.Errorf("empty layout error = %v, want EMPTY_DATASET", err)
	}
}

func TestComputeLayoutSharedDomains(t *testing.T) {
	// Two groups with disjoint value ranges must share one domain wide
	// enough for both.
	g1 := Group{Number: 1, Regions: []*Region{
		{ID: "a", Row: 1, Values: map[string]float64{"v": 12}},
		{ID: "b", Row: 2, Values: map[string]float64{"v": 37}},
	}}
	g2 := Group{Number: 2, Regions: []*Region{
		{ID: "c", Row: 1, Values: map[string]float64{"v": 81}},
		{ID: "d", Row: 2, Values: map[string]float64{"v": 55}},
	}}

	layout, err := ComputeLayout([]Group{g1, g2}, SpacingEqual, []VariableSpec{{Name: "v"}})
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	d, ok := layout.Domains["v"]
	if !ok {
		t.Fatal("domain for v missing")
	}
	if d.Min >= 12 || d.Max <= 81 {
		t.Errorf("domain [%g, %g] does not cover data range [12, 81]", d.Min, d.Max)
	}
	if d.Degenerate {
		t.Error("non-constant variable marked degenerate")
	}
	if len(d.Ticks) == 0 {
		t.Error("no major ticks in domain")
	}
	for _, tick := range d.Ticks {
		if tick < d.Min || tick > d.Max {
			t.Errorf("tick %g outside domain [%g, %g]", tick, d.Min, d.Max)
		}
	}
}

func TestComputeLayoutDomainMargin(t *testing.T) {
	groups := []Group{{Number: 1, Regions: []*Region{
		{ID: "a", Row: 1, Values: map[string]float64{"v": 0}},
		{ID: "b", Row: 2, Values: map[string]float64{"v": 100}},
	}}}

	layout, err := ComputeLayout(groups, SpacingEqual, []VariableSpec{{Name: "v"}})
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	d := layout.Domains["v"]
	// Pretty bounds land on [0, 100]; the margin extends both sides by 5%.
	if math.Abs(d.Min- -5) > 1e-9 || math.Abs(d.Max-105) > 1e-9 {
		t.Errorf("domain = [%g, %g], want [-5, 105]", d.Min, d.Max)
	}
}

func TestComputeLayoutConstantVariable(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"Zero", 0},
		{"Positive", 42.5},
		{"Negative", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := []Group{{Number: 1, Regions: []*Region{
				{ID: "a", Row: 1, Values: map[string]float64{"v": tt.value}},
				{ID: "b", Row: 2, Values: map[string]float64{"v": tt.value}},
			}}}

			layout, err := ComputeLayout(groups, SpacingEqual, []VariableSpec{{Name: "v"}})
			if err != nil {
				t.Fatalf("constant variable must not fail: %v", err)
			}

			d := layout.Domains["v"]
			if !d.Degenerate {
				t.Error("constant variable not marked degenerate")
			}
			if d.Min >= d.Max {
				t.Errorf("padded domain [%g, %g] has no width", d.Min, d.Max)
			}
			if tt.value <= d.Min || tt.value >= d.Max {
				t.Errorf("value %g not inside padded domain [%g, %g]", tt.value, d.Min, d.Max)
			}

			if err := layout.RequireFiniteDomains(); errors.GetCode(err) != errors.ErrCodeDegenerateDomain {
				t.Errorf("RequireFiniteDomains() = %v, want DEGENERATE_DOMAIN", err)
			}
		})
	}
}

func TestRequireFiniteDomains(t *testing.T) {
	groups := []Group{{Number: 1, Regions: []*Region{
		{ID: "a", Row: 1, Values: map[string]float64{"v": 10}},
		{ID: "b", Row: 2, Values: map[string]float64{"v": 20}},
	}}}

	layout, err := ComputeLayout(groups, SpacingEqual, []VariableSpec{{Name: "v"}})
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	if err := layout.RequireFiniteDomains(); err != nil {
		t.Errorf("RequireFiniteDomains() = %v for a spread variable, want nil", err)
	}
}

func TestLayoutExtentLookup(t *testing.T) {
	layout, err := ComputeLayout(sizedGroups(2, 3), SpacingEqual, nil)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	e, ok := layout.Extent(2)
	if !ok || e.RowEnd != 3 {
		t.Errorf("Extent(2) = %+v, %v", e, ok)
	}
	if _, ok := layout.Extent(9); ok {
		t.Error("Extent(9) found a nonexistent group")
	}
}
