package micromap

import (
	"testing"

	"github.com/cartoviz/micromap/pkg/errors"
)

func TestCanonicalColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FFF8DC", "#fff8dc"},
		{"#fff8dc", "#fff8dc"},
		{"  #FFD700 ", "#ffd700"},
		{"cornsilk", "#fff8dc"},
		{"Gold", "#ffd700"},
		{"#FFF8DCFF", "#fff8dc"}, // alpha stripped
		{"#1a2b3c", "#1a2b3c"},
		{"#ABCDEF", "#abcdef"},
		{"rebeccapurple", "rebeccapurple"}, // unparseable, passed through
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CanonicalColor(tt.in); got != tt.want {
				t.Errorf("CanonicalColor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	reserved := []string{
		"#fff8dc", "#FFF8DC", "#FfF8dC",
		"#fff8dcff", "#FFF8DC80",
		"cornsilk", "Cornsilk", "CORNSILK",
		"#ffd700", "#FFD700", "gold", "GOLD",
	}
	for _, c := range reserved {
		if !IsReserved(c) {
			t.Errorf("IsReserved(%q) = false, want true", c)
		}
	}

	allowed := []string{"#fff8dd", "#c0ffee", "steelblue", "#ffd800"}
	for _, c := range allowed {
		if IsReserved(c) {
			t.Errorf("IsReserved(%q) = true, want false", c)
		}
	}
}

func TestAssignColors(t *testing.T) {
	tests := []struct {
		name      string
		k         int
		requested []string
		want      []string
		wantCode  errors.Code
	}{
		{
			name:      "ExactLength",
			k:         3,
			requested: []string{"#ff0000", "#00FF00", "#0000ff"},
			want:      []string{"#ff0000", "#00ff00", "#0000ff"},
		},
		{
			name:      "ShortPaletteCycles",
			k:         5,
			requested: []string{"#ff0000", "#0000ff"},
			want:      []string{"#ff0000", "#0000ff", "#ff0000", "#0000ff", "#ff0000"},
		},
		{
			name:      "LongPaletteTruncates",
			k:         2,
			requested: []string{"#111111", "#222222", "#333333"},
			want:      []string{"#111111", "#222222"},
		},
		{
			name:      "BackgroundSentinelRejected",
			k:         2,
			requested: []string{"#ff0000", "#FFF8DC"},
			wantCode:  errors.ErrCodeReservedColor,
		},
		{
			name:      "HighlightSentinelRejected",
			k:         2,
			requested: []string{"gold", "#ff0000"},
			wantCode:  errors.ErrCodeReservedColor,
		},
		{
			name:      "SentinelWithAlphaRejected",
			k:         1,
			requested: []string{"#fff8dcff"},
			wantCode:  errors.ErrCodeReservedColor,
		},
		{
			name:     "NonPositiveCount",
			k:        0,
			wantCode: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AssignColors(tt.k, tt.requested, nil)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("AssignColors() = %v, want error code %s", got, tt.wantCode)
				}
				if code := errors.GetCode(err); code != tt.wantCode {
					t.Errorf("error code = %s, want %s", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("AssignColors() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d colors, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("color[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAssignColorsGenerated(t *testing.T) {
	got, err := AssignColors(6, nil, nil)
	if err != nil {
		t.Fatalf("AssignColors() error = %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("generated %d colors, want 6", len(got))
	}

	seen := make(map[string]bool)
	for _, c := range got {
		if IsReserved(c) {
			t.Errorf("generated palette contains sentinel %q", c)
		}
		if seen[c] {
			t.Errorf("generated palette repeats %q", c)
		}
		seen[c] = true
	}

	// Generation is deterministic in k.
	again, err := AssignColors(6, nil, nil)
	if err != nil {
		t.Fatalf("AssignColors() error = %v", err)
	}
	for i := range got {
		if got[i] != again[i] {
			t.Errorf("color[%d] differs across runs: %q vs %q", i, got[i], again[i])
		}
	}
}

// sentinelPalette always emits the highlight sentinel in slot 0.
type sentinelPalette struct{}

func (sentinelPalette) Generate(k int) ([]string, error) {
	out := make([]string, k)
	out[0] = SentinelHighlight
	for i := 1; i < k; i++ {
		out[i] = "#123456"
	}
	return out, nil
}

func TestAssignColorsGeneratedNeverReserved(t *testing.T) {
	// The rainbow sweep passes through gold's hue, so certain sizes would
	// otherwise emit SentinelHighlight verbatim.
	for k := 1; k <= 60; k++ {
		got, err := AssignColors(k, nil, nil)
		if err != nil {
			t.Fatalf("AssignColors(%d) error = %v", k, err)
		}
		if len(got) != k {
			t.Fatalf("AssignColors(%d) returned %d colors", k, len(got))
		}
		for i, c := range got {
			if IsReserved(c) {
				t.Errorf("k=%d: generated color %d = %q is a reserved sentinel", k, i, c)
			}
		}
	}
}

func TestAssignColorsScreensProvider(t *testing.T) {
	got, err := AssignColors(3, nil, sentinelPalette{})
	if err != nil {
		t.Fatalf("AssignColors() error = %v", err)
	}
	if IsReserved(got[0]) {
		t.Errorf("provider sentinel survived screening: %q", got[0])
	}
	if got[0] != "#ffd701" {
		t.Errorf("screened color = %q, want %q", got[0], "#ffd701")
	}
	if got[1] != "#123456" || got[2] != "#123456" {
		t.Errorf("non-sentinel colors altered: %v", got[1:])
	}
}

func TestBuildColorTable(t *testing.T) {
	rowColors := []string{"#111111", "#222222", "#333333"}
	groups := []Group{
		{Number: 1, Regions: []*Region{
			{ID: "a", Row: 1}, {ID: "b", Row: 2}, {ID: "c", Row: 3},
		}},
		{Number: 2, Regions: []*Region{
			{ID: "d", Row: 1}, {ID: "e", Row: 2},
		}},
	}

	table := BuildColorTable(groups, rowColors)

	// Row i carries the same color in every group.
	if table["a"] != table["d"] {
		t.Errorf("row 1 colors differ across groups: %q vs %q", table["a"], table["d"])
	}
	if table["b"] != table["e"] {
		t.Errorf("row 2 colors differ across groups: %q vs %q", table["b"], table["e"])
	}
	if table["a"] != "#111111" || table["b"] != "#222222" || table["c"] != "#333333" {
		t.Errorf("group 1 colors = %q/%q/%q, want row sequence", table["a"], table["b"], table["c"])
	}
}
