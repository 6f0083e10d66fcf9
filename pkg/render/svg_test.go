package render

import (
	"strings"
	"testing"

	"github.com/cartoviz/micromap/pkg/dataset"
	"github.com/cartoviz/micromap/pkg/geo"
	"github.com/cartoviz/micromap/pkg/micromap"
)

func renderFixture(t *testing.T) *micromap.Display {
	t.Helper()

	ds := dataset.New(4)
	if _, err := ds.AddStrings("id", []string{"a", "b", "c", "d"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ds.AddStrings("name", []string{"Ada & Co", "Basin", "Crest", "Delta"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ds.AddNumeric("v", []float64{4, 3, 2, 1}); err != nil {
		t.Fatal(err)
	}

	provider := geo.NewMemoryProvider()
	provider.Add("a", "a.1", "a.2")
	provider.Add("b")
	provider.Add("c")
	provider.Add("d")

	d, err := micromap.New(ds, provider, nil, micromap.Config{
		IDVar:       "id",
		NameVar:     "name",
		GroupingVar: micromap.VariableSpec{Name: "v"},
		NGroups:     2,
		Palette:     []string{"#111111", "#222222"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSVG(t *testing.T) {
	d := renderFixture(t)
	out := string(SVG(d.Snapshot(), 800, 600))

	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatal("output is not a complete svg document")
	}
	if !strings.Contains(out, `width="800"`) || !strings.Contains(out, `height="600"`) {
		t.Error("requested dimensions missing")
	}

	// One dot per region per variable.
	if got := strings.Count(out, "<circle"); got != 4 {
		t.Errorf("found %d dots, want 4", got)
	}

	// Labels are drawn with XML escaping.
	if !strings.Contains(out, "Ada &amp; Co") {
		t.Error("ampersand in display name not escaped")
	}
	if strings.Contains(out, "Ada & Co") {
		t.Error("raw ampersand leaked into markup")
	}

	// Row colors appear; multi-part region a draws one swatch per part.
	if !strings.Contains(out, "#111111") || !strings.Contains(out, "#222222") {
		t.Error("row colors missing from output")
	}
}

func TestSVGSelectedRowsUseHighlight(t *testing.T) {
	d := renderFixture(t)
	d.Select("a")

	snap := d.Snapshot()
	out := string(SVG(snap, 400, 300))

	if !strings.Contains(out, snap.Highlight) {
		t.Error("selected row not drawn with the highlight sentinel")
	}
}

func TestSVGDeterministic(t *testing.T) {
	d := renderFixture(t)
	snap := d.Snapshot()

	first := SVG(snap, 640, 480)
	second := SVG(snap, 640, 480)
	if string(first) != string(second) {
		t.Error("identical snapshot rendered differently")
	}
}
