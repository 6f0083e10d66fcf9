package micromap

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"

	"github.com/cartoviz/micromap/pkg/errors"
)

// The two reserved sentinel colors. Downstream rendering distinguishes real
// data colors from structural state purely by these values, so user palettes
// must never contain them.
const (
	// SentinelBackground fills map polygons whose region is unselected or
	// outside the current panel (cornsilk).
	SentinelBackground = "#fff8dc"

	// SentinelHighlight marks the currently highlighted row and its
	// polygons (gold).
	SentinelHighlight = "#ffd700"
)

// sentinelNames maps the color-name spellings of the sentinels to their
// canonical hex form, so reservation checks catch textual forms too.
var sentinelNames = map[string]string{
	"cornsilk": SentinelBackground,
	"gold":     SentinelHighlight,
}

// PaletteProvider generates k colors when the caller supplies no explicit
// palette.
type PaletteProvider interface {
	Generate(k int) ([]string, error)
}

// RainbowPalette is the default PaletteProvider, producing evenly spaced
// hues via gonum's rainbow palette. Output is deterministic in k.
type RainbowPalette struct{}

// Generate implements PaletteProvider.
func (RainbowPalette) Generate(k int) ([]string, error) {
	if k <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "palette size must be positive, got %d", k)
	}
	out := make([]string, 0, k)
	for _, c := range palette.Rainbow(k, palette.Red, palette.Blue, 1, 1, 1).Colors() {
		cc, _ := colorful.MakeColor(c)
		out = append(out, cc.Hex())
	}
	return out, nil
}

// CanonicalColor normalizes a color to lowercase #rrggbb hex. Sentinel color
// names are mapped to their hex form; an 8-digit hex value has its alpha
// suffix stripped before parsing. Values that fail to parse are returned
// lowercased as-is: they cannot collide with a sentinel, and whether they
// are renderable is the renderer's concern.
func CanonicalColor(c string) string {
	s := strings.ToLower(strings.TrimSpace(c))
	if hex, ok := sentinelNames[s]; ok {
		return hex
	}
	if strings.HasPrefix(s, "#") && len(s) == 9 {
		s = s[:7] // drop alpha channel
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return s
	}
	return parsed.Hex()
}

// IsReserved reports whether a color is one of the two sentinels, in any
// equivalent textual or hex form.
func IsReserved(c string) bool {
	canon := CanonicalColor(c)
	return canon == SentinelBackground || canon == SentinelHighlight
}

// AssignColors returns the ordered per-row color sequence of length k (the
// largest group size). A nil or empty requested palette is generated by the
// provider, with any generated color that lands on a sentinel nudged off it;
// a shorter requested palette is cycled to length, not rejected. A requested
// palette containing either sentinel color fails with RESERVED_COLOR.
func AssignColors(k int, requested []string, provider PaletteProvider) ([]string, error) {
	if k <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "need a positive color count, got %d", k)
	}
	if provider == nil {
		provider = RainbowPalette{}
	}

	if len(requested) == 0 {
		gen, err := provider.Generate(k)
		if err != nil {
			return nil, err
		}
		return screenGenerated(gen), nil
	}

	for _, c := range requested {
		if IsReserved(c) {
			return nil, errors.New(errors.ErrCodeReservedColor,
				"palette color %q is a reserved sentinel", c)
		}
	}

	out := make([]string, k)
	for i := range out {
		out[i] = CanonicalColor(requested[i%len(requested)])
	}
	return out, nil
}

// screenGenerated canonicalizes provider output and moves any color that
// equals a sentinel off of it. Rainbow sweeps through gold's hue, so a
// generated palette can land exactly on SentinelHighlight.
func screenGenerated(colors []string) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		canon := CanonicalColor(c)
		if IsReserved(canon) {
			canon = nudgeColor(canon)
		}
		out[i] = canon
	}
	return out
}

// nudgeColor shifts the blue channel by one step, the smallest deterministic
// change that leaves the sentinel neighborhood.
func nudgeColor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	if b == 255 {
		b--
	} else {
		b++
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// ColorTable maps region id to its display color. It never contains a
// sentinel color: AssignColors rejects requested sentinels and screens
// generated palettes before the table is built.
type ColorTable map[string]string

// BuildColorTable colors each region by its row position, so row i carries
// the same color in every group.
func BuildColorTable(groups []Group, rowColors []string) ColorTable {
	table := make(ColorTable)
	for _, g := range groups {
		for _, r := range g.Regions {
			table[r.ID] = rowColors[(r.Row-1)%len(rowColors)]
		}
	}
	return table
}
