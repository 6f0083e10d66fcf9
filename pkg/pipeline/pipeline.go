// Package pipeline provides the load → build → export pipeline for micromap
// displays.
//
// This package implements the complete dataset → layout/link computation →
// serialized snapshot flow shared by the CLI, the HTTP API, and the
// inspector. Centralizing it ensures every entry point performs the same
// atomic, all-or-nothing rebuild.
//
// # Architecture
//
// A pipeline run has three stages:
//
//  1. Load: read the dataset (CSV) and geometry part lists
//  2. Build: run the engine pipeline (allocate → resolve → order → layout →
//     link → color) and export a snapshot
//  3. Render: encode the snapshot into the requested artifact formats
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    IDVar:       "state",
//	    GroupingVar: micromap.VariableSpec{Name: "poverty"},
//	    NGroups:     5,
//	    Formats:     []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, ds, geoProvider, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/micromap"
)

// Default values shared by CLI, API, and inspector.
const (
	// DefaultSpacing is the default vertical spacing policy.
	DefaultSpacing = string(micromap.SpacingEqual)

	// DefaultSync is the default link-group synchronization policy.
	DefaultSync = string(micromap.SyncPull)

	// DefaultWidth is the default artifact frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default artifact frame height in pixels.
	DefaultHeight = 600.0

	// DefaultTTL is how long cached snapshots and artifacts live.
	DefaultTTL = 24 * time.Hour
)

// Artifact format constants.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
}

// Options contains all configuration for a pipeline run. The struct is
// TOML-decodable so display spec files can carry it, and JSON-serializable
// for API requests.
type Options struct {
	// Load options (CLI file paths; ignored when the caller passes
	// in-memory data)
	Dataset  string `json:"dataset,omitempty" toml:"dataset"`
	Geometry string `json:"geometry,omitempty" toml:"geometry"`

	// Build options
	IDVar       string                  `json:"id_var" toml:"id_var"`
	NameVar     string                  `json:"name_var,omitempty" toml:"name_var"`
	GroupingVar micromap.VariableSpec   `json:"grouping_var" toml:"grouping_var"`
	Variables   []micromap.VariableSpec `json:"variables,omitempty" toml:"variables"`
	Grouping    []int                   `json:"grouping,omitempty" toml:"grouping"`
	NGroups     int                     `json:"n_groups,omitempty" toml:"n_groups"`
	Spacing     string                  `json:"spacing,omitempty" toml:"spacing"`
	Palette     []string                `json:"palette,omitempty" toml:"palette"`
	LinkGroup   string                  `json:"link_group,omitempty" toml:"link_group"`
	LinkKeys    []string                `json:"link_keys,omitempty" toml:"link_keys"`
	Sync        string                  `json:"sync,omitempty" toml:"sync"`
	Attributes  map[string][]string     `json:"attributes,omitempty" toml:"attributes"`

	// Render options
	Formats []string `json:"formats,omitempty" toml:"formats"`
	Width   float64  `json:"width,omitempty" toml:"width"`
	Height  float64  `json:"height,omitempty" toml:"height"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`
}

// LoadOptions reads a display spec file in TOML format.
func LoadOptions(path string) (Options, error) {
	var opts Options
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading display spec %s", path)
	}
	return opts, nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.IDVar == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "id_var is required")
	}
	if o.GroupingVar.Name == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "grouping_var is required")
	}
	if o.Spacing == "" {
		o.Spacing = DefaultSpacing
	}
	if !micromap.ValidSpacing(micromap.SpacingPolicy(o.Spacing)) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid spacing: %q (must be one of: equal, max)", o.Spacing)
	}
	if o.Sync == "" {
		o.Sync = DefaultSync
	}
	if !micromap.ValidSync(micromap.SyncPolicy(o.Sync)) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid sync: %q (must be one of: pull, push)", o.Sync)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidConfig,
				"invalid format: %q (must be one of: json, svg)", f)
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// DisplayConfig converts options to the engine configuration.
func (o *Options) DisplayConfig() micromap.Config {
	return micromap.Config{
		IDVar:       o.IDVar,
		NameVar:     o.NameVar,
		GroupingVar: o.GroupingVar,
		Variables:   o.Variables,
		Grouping:    o.Grouping,
		NGroups:     o.NGroups,
		Spacing:     micromap.SpacingPolicy(o.Spacing),
		Palette:     o.Palette,
		LinkGroup:   o.LinkGroup,
		LinkKeys:    o.LinkKeys,
		Sync:        micromap.SyncPolicy(o.Sync),
		Attributes:  o.Attributes,
	}
}
