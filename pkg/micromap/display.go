package micromap

import (
	"strconv"
	"sync"

	"github.com/cartoviz/micromap/pkg/dataset"
	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/geo"
)

// Config is the full configuration surface of a display. Everything is
// threaded explicitly: there are no package-level option flags.
type Config struct {
	// IDVar names the unique-valued column identifying regions.
	IDVar string

	// NameVar names the display-name column. Defaults to IDVar.
	NameVar string

	// GroupingVar drives both row ordering and group chunking. Required.
	GroupingVar VariableSpec

	// Variables are the additional plotted statistics.
	Variables []VariableSpec

	// Grouping is an explicit sequence of group sizes; takes precedence
	// over NGroups. NGroups of zero means the default heuristic.
	Grouping []int
	NGroups  int

	// Spacing selects the vertical coordinate policy. Defaults to equal.
	Spacing SpacingPolicy

	// Palette is the requested row palette; empty means generate via the
	// palette provider. Shorter-than-needed palettes are cycled.
	Palette []string

	// LinkGroup and LinkKeys couple this display to peers for shared
	// selection. LinkGroup defaults to a fresh private id; LinkKeys
	// default to zero-based index strings and must be unique.
	LinkGroup string
	LinkKeys  []string

	// Sync controls selection reconciliation when joining a link group.
	// Defaults to pull.
	Sync SyncPolicy

	// Attributes are arbitrary per-row visual overrides, each of length 1
	// (broadcast) or length n.
	Attributes map[string][]string
}

// Patch is a partial configuration change applied by Reconfigure. Nil fields
// keep the current value.
type Patch struct {
	GroupingVar *VariableSpec
	Variables   *[]VariableSpec
	Grouping    *[]int
	NGroups     *int
	Spacing     *SpacingPolicy
	Palette     *[]string
	Attributes  *map[string][]string
}

// state is the complete set of derived structures. A rebuild constructs a
// fresh state and swaps it in whole; nothing is updated incrementally.
type state struct {
	vars      []VariableSpec
	regions   []*Region
	groups    []Group
	layout    *Layout
	links     []GroupLinkIndex
	rowColors []string
	colors    ColorTable
	attrs     map[string][]string
}

// Display is a configured linked-micromap layout. All derived structures are
// recomputed in full on every (re)configuration; readers always observe
// either the previous complete state or the new one, never a mixture.
type Display struct {
	ds       *dataset.Dataset
	geo      geo.PartProvider
	palettes PaletteProvider

	buildMu  sync.Mutex
	building bool

	mu  sync.RWMutex
	cfg Config
	st  *state

	link *linkState
}

// New validates cfg, runs the full build pipeline, and joins the link group.
// Any validation error aborts before construction; no partially built
// display is returned.
func New(ds *dataset.Dataset, provider geo.PartProvider, palettes PaletteProvider, cfg Config, hub *LinkHub) (*Display, error) {
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	st, err := buildState(ds, provider, palettes, cfg)
	if err != nil {
		return nil, err
	}

	d := &Display{
		ds:       ds,
		geo:      provider,
		palettes: palettes,
		cfg:      cfg,
		st:       st,
	}

	if hub != nil {
		d.link = hub.join(cfg.LinkGroup, cfg.Sync)
	} else {
		d.link = &linkState{selected: make(map[string]bool)}
	}
	return d, nil
}

// Reconfigure applies a patch and atomically rebuilds every derived
// structure. It is idempotent: reapplying the same patch to the same inputs
// yields an identical display. A rebuild already in progress causes the new
// trigger to be rejected with REBUILD_IN_PROGRESS rather than interleaved,
// and any build error leaves the previous good state visible and
// interactive.
func (d *Display) Reconfigure(patch Patch) error {
	d.buildMu.Lock()
	if d.building {
		d.buildMu.Unlock()
		return errors.New(errors.ErrCodeRebuildInProgress, "a rebuild is already running")
	}
	d.building = true
	d.buildMu.Unlock()
	defer func() {
		d.buildMu.Lock()
		d.building = false
		d.buildMu.Unlock()
	}()

	d.mu.RLock()
	cfg := d.cfg
	d.mu.RUnlock()
	applyPatch(&cfg, patch)
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := buildState(d.ds, d.geo, d.palettes, cfg)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.cfg = cfg
	d.st = st
	d.mu.Unlock()
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.NameVar == "" {
		cfg.NameVar = cfg.IDVar
	}
	if cfg.Spacing == "" {
		cfg.Spacing = SpacingEqual
	}
	if cfg.Sync == "" {
		cfg.Sync = SyncPull
	}
	if cfg.LinkGroup == "" {
		cfg.LinkGroup = NewGroupID()
	}
}

func validateConfig(cfg Config) error {
	if !ValidSpacing(cfg.Spacing) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown spacing policy %q", cfg.Spacing)
	}
	if !ValidSync(cfg.Sync) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown sync policy %q", cfg.Sync)
	}
	return nil
}

func applyPatch(cfg *Config, p Patch) {
	if p.GroupingVar != nil {
		cfg.GroupingVar = *p.GroupingVar
	}
	if p.Variables != nil {
		cfg.Variables = *p.Variables
	}
	if p.Grouping != nil {
		cfg.Grouping = *p.Grouping
	}
	if p.NGroups != nil {
		cfg.NGroups = *p.NGroups
	}
	if p.Spacing != nil {
		cfg.Spacing = *p.Spacing
	}
	if p.Palette != nil {
		cfg.Palette = *p.Palette
	}
	if p.Attributes != nil {
		cfg.Attributes = *p.Attributes
	}
}

// buildState runs the full allocate → resolve → order → layout → link →
// color pipeline. All validation happens before any derived structure is
// assembled, so an error never leaves partial output.
func buildState(ds *dataset.Dataset, provider geo.PartProvider, palettes PaletteProvider, cfg Config) (*state, error) {
	n := ds.Len()
	if n == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "dataset has no rows")
	}

	vars, err := ResolveVariables(ds, cfg.IDVar, cfg.GroupingVar, cfg.Variables)
	if err != nil {
		return nil, err
	}

	attrs, err := ResolveAttributes(cfg.Attributes, n, ds)
	if err != nil {
		return nil, err
	}

	sizes, err := Allocate(n, cfg.NGroups, cfg.Grouping)
	if err != nil {
		return nil, err
	}

	regions, err := buildRegions(ds, cfg, vars)
	if err != nil {
		return nil, err
	}

	groups, err := AssignGroups(regions, sizes, cfg.GroupingVar.Name)
	if err != nil {
		return nil, err
	}

	layout, err := ComputeLayout(groups, cfg.Spacing, vars)
	if err != nil {
		return nil, err
	}

	links, err := BuildLinkIndex(groups, provider)
	if err != nil {
		return nil, err
	}

	maxSize := 0
	for _, s := range sizes {
		if s > maxSize {
			maxSize = s
		}
	}
	rowColors, err := AssignColors(maxSize, cfg.Palette, palettes)
	if err != nil {
		return nil, err
	}

	return &state{
		vars:      vars,
		regions:   regions,
		groups:    groups,
		layout:    layout,
		links:     links,
		rowColors: rowColors,
		colors:    BuildColorTable(groups, rowColors),
		attrs:     attrs,
	}, nil
}

// buildRegions materializes regions from dataset columns, including linking
// keys (index strings unless supplied, unique either way).
func buildRegions(ds *dataset.Dataset, cfg Config, vars []VariableSpec) ([]*Region, error) {
	n := ds.Len()

	ids, err := ds.Strings(cfg.IDVar)
	if err != nil {
		return nil, err
	}
	names, err := ds.Strings(cfg.NameVar)
	if err != nil {
		return nil, err
	}

	keys := cfg.LinkKeys
	if len(keys) == 0 {
		keys = make([]string, n)
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
	} else if len(keys) != n {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"have %d linking keys for %d regions", len(keys), n)
	}
	seen := make(map[string]bool, n)
	for _, k := range keys {
		if seen[k] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate linking key %q", k)
		}
		seen[k] = true
	}

	values := make(map[string][]float64, len(vars))
	for _, v := range vars {
		floats, err := ds.Floats(v.Name)
		if err != nil {
			return nil, err
		}
		values[v.Name] = floats
	}

	regions := make([]*Region, n)
	for i := 0; i < n; i++ {
		r := &Region{
			ID:      ids[i],
			Name:    names[i],
			Values:  make(map[string]float64, len(vars)),
			LinkKey: keys[i],
		}
		for name, col := range values {
			r.Values[name] = col[i]
		}
		regions[i] = r
	}
	return regions, nil
}
