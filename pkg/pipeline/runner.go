package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cartoviz/micromap/pkg/cache"
	"github.com/cartoviz/micromap/pkg/dataset"
	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/geo"
	"github.com/cartoviz/micromap/pkg/micromap"
	"github.com/cartoviz/micromap/pkg/observability"
	"github.com/cartoviz/micromap/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the computed, serializable display state.
	Snapshot *micromap.Snapshot

	// SnapshotHash is the content hash of the serialized snapshot.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RegionCount int
	GroupCount  int
	BuildTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SnapshotHit bool // Whether the snapshot came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, provider geo.PartProvider, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if r.Logger != nil {
		logger = r.Logger
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	buildStart := time.Now()
	snap, data, hit, err := r.buildSnapshot(ctx, ds, provider, opts)
	if err != nil {
		observability.Build().OnBuildComplete(ctx, ds.Len(), 0, time.Since(buildStart), err)
		return nil, err
	}
	result.Snapshot = snap
	result.SnapshotHash = cache.Hash(data)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.RegionCount = ds.Len()
	result.Stats.GroupCount = len(snap.Groups)
	result.CacheInfo.SnapshotHit = hit
	observability.Build().OnBuildComplete(ctx, ds.Len(), len(snap.Groups), result.Stats.BuildTime, nil)

	logger.Info("computed layout",
		"regions", result.Stats.RegionCount,
		"groups", result.Stats.GroupCount,
		"spacing", snap.Spacing,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	renderStart := time.Now()
	renderHit := true
	for _, format := range opts.Formats {
		artifact, fromCache, err := r.renderArtifact(ctx, snap, data, result.SnapshotHash, format, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = artifact
		renderHit = renderHit && fromCache
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// buildSnapshot computes or retrieves the serialized snapshot.
func (r *Runner) buildSnapshot(ctx context.Context, ds *dataset.Dataset, provider geo.PartProvider, opts Options) (*micromap.Snapshot, []byte, bool, error) {
	key := r.Keyer.SnapshotKey(datasetHash(ds), snapshotKeyOpts(opts))

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			var snap micromap.Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				observability.Cache().OnCacheHit(ctx, "snapshot")
				return &snap, data, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "snapshot")
	}

	observability.Build().OnBuildStart(ctx, ds.Len())
	display, err := micromap.New(ds, provider, nil, opts.DisplayConfig(), nil)
	if err != nil {
		return nil, nil, false, err
	}
	snap := display.Snapshot()

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serializing snapshot")
	}
	if err := r.Cache.Set(ctx, key, data, DefaultTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
	}
	return snap, data, false, nil
}

// renderArtifact encodes the snapshot into one format, cache-first.
func (r *Runner) renderArtifact(ctx context.Context, snap *micromap.Snapshot, data []byte, snapHash, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(snapHash, cache.ArtifactKeyOpts{
		Format: format,
		Width:  opts.Width,
		Height: opts.Height,
	})

	if !opts.Refresh {
		if artifact, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifact, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	var artifact []byte
	switch format {
	case FormatJSON:
		indented, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encoding snapshot json")
		}
		artifact = indented
	case FormatSVG:
		artifact = render.SVG(snap, opts.Width, opts.Height)
	default:
		return nil, false, errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q", format)
	}

	if err := r.Cache.Set(ctx, key, artifact, DefaultTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(artifact))
	}
	return artifact, false, nil
}

// snapshotKeyOpts extracts the build options that vary the snapshot.
func snapshotKeyOpts(opts Options) cache.SnapshotKeyOpts {
	vars := make([]string, 0, len(opts.Variables)+1)
	vars = append(vars, opts.GroupingVar.Name)
	for _, v := range opts.Variables {
		vars = append(vars, v.Name)
	}
	return cache.SnapshotKeyOpts{
		IDVar:    opts.IDVar,
		Grouping: opts.Grouping,
		NGroups:  opts.NGroups,
		Spacing:  opts.Spacing,
		Vars:     vars,
		Palette:  opts.Palette,
	}
}

// datasetHash fingerprints the dataset content for cache keys.
func datasetHash(ds *dataset.Dataset) string {
	cols := ds.Columns()
	parts := make(map[string][]string, len(cols))
	for _, name := range cols {
		values, err := ds.Strings(name)
		if err != nil {
			continue
		}
		parts[name] = values
	}
	data, _ := json.Marshal(parts)
	return cache.Hash(data)
}
