// Package pkg provides the core libraries for linked micromap layouts.
//
// # Overview
//
// A linked micromap display pairs small choropleth maps with ranked
// dot-strip panels: regions are split into ordered groups, each group gets
// one map panel and one dot panel per plotted variable, and every panel
// indexes the same rows. The pkg directory is organized into four main
// areas:
//
//  1. [micromap] - Layout engine (grouping, ordering, coordinates, linking, colors)
//  2. [dataset] / [geo] - Tabular data and polygon geometry inputs
//  3. [pipeline] - Orchestration (load → build → cache → render)
//  4. [cache] / [observability] - Infrastructure (artifact caching, hooks)
//
// # Architecture
//
// The typical data flow:
//
//	CSV dataset + geometry
//	         ↓
//	    [pipeline] package (load, validate, defaults)
//	         ↓
//	    [micromap] package (allocate → order → layout → link → color)
//	         ↓
//	    [render] package (SVG) / snapshot JSON
//
// # Quick Start
//
// Build a display and grab its snapshot:
//
//	import (
//	    "github.com/cartoviz/micromap/pkg/dataset"
//	    "github.com/cartoviz/micromap/pkg/geo"
//	    "github.com/cartoviz/micromap/pkg/micromap"
//	)
//
//	// 1. Load data
//	ds, _ := dataset.FromCSV(f)
//	gc := geo.NewCollection()
//	gc.Add("MI", []string{"MI-lower", "MI-upper"})
//
//	// 2. Build the display
//	d, _ := micromap.New(ds, gc, nil, micromap.Config{
//	    IDVar:       "state",
//	    GroupingVar: micromap.Variable{Name: "poverty"},
//	    Variables:   []micromap.Variable{{Name: "income"}},
//	}, nil)
//
//	// 3. Inspect the layout
//	snap := d.Snapshot()
//
// # Main Packages
//
// [micromap] - The layout engine. Partitions regions into near-equal groups
// ranked by a grouping variable, computes panel coordinate extents with
// pretty axis domains, builds the bidirectional row to polygon-part index,
// and assigns perceptually ordered row colors. Displays rebuild atomically
// via Reconfigure and can share selection state through a LinkHub.
//
// [dataset] - Column-typed tables loaded from CSV with uniqueness checks
// and collision-safe column naming.
//
// [geo] - Region to polygon-part registry with stable draw order.
//
// [render] - Reference SVG sink for computed snapshots.
//
// [pipeline] - End-to-end runner used by CLI and API: loads TOML display
// specs, validates options, builds snapshots cache-first, and renders
// artifacts per requested format.
//
// [cache] - Content-addressed artifact cache with file, Redis, and null
// backends plus key scoping.
//
// [observability] - Build and cache hook interfaces with no-op defaults.
//
// [errors] - Coded errors with user-facing messages shared across CLI and
// API surfaces.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/micromap/...           # Specific package
//
// [micromap]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/micromap
// [dataset]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/dataset
// [geo]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/geo
// [render]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/cartoviz/micromap/pkg/errors
package pkg
