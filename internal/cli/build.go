package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cartoviz/micromap/pkg/cache"
	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/geo"
	"github.com/cartoviz/micromap/pkg/micromap"
	"github.com/cartoviz/micromap/pkg/pipeline"
)

// newBuildCmd creates the build command.
func newBuildCmd() *cobra.Command {
	var (
		specPath  string
		dsPath    string
		geoPath   string
		outDir    string
		formats   []string
		spacing   string
		nGroups   int
		idVar     string
		groupVar  string
		plotVars  []string
		refresh   bool
		noCache   bool
		summarize bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compute a linked micromap layout and write artifacts",
		Long: `Build runs the full layout pipeline: allocate groups, resolve variables,
order rows, compute panel coordinates, link rows to polygons, and assign
colors. Options come from a TOML display spec (--spec) and can be overridden
by flags; artifacts are written to the output directory.`,
		Example: `  micromap build --spec examples/edu/display.toml
  micromap build --dataset states.csv --id-var state --group-var poverty --groups 5 --format svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var opts pipeline.Options
			if specPath != "" {
				loaded, err := pipeline.LoadOptions(specPath)
				if err != nil {
					return err
				}
				opts = loaded
			}

			// Flags override the spec file.
			if dsPath != "" {
				opts.Dataset = dsPath
			}
			if geoPath != "" {
				opts.Geometry = geoPath
			}
			if idVar != "" {
				opts.IDVar = idVar
			}
			if groupVar != "" {
				opts.GroupingVar = micromap.VariableSpec{Name: groupVar}
			}
			for _, v := range plotVars {
				opts.Variables = append(opts.Variables, micromap.VariableSpec{Name: v})
			}
			if spacing != "" {
				opts.Spacing = spacing
			}
			if nGroups > 0 {
				opts.NGroups = nGroups
			}
			if len(formats) > 0 {
				opts.Formats = formats
			}
			opts.Refresh = refresh
			opts.Logger = logger

			if opts.Dataset == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "a dataset is required (--dataset or spec file)")
			}

			// Paths in a spec file are relative to the spec file.
			if specPath != "" {
				base := filepath.Dir(specPath)
				if !filepath.IsAbs(opts.Dataset) {
					opts.Dataset = filepath.Join(base, opts.Dataset)
				}
				if opts.Geometry != "" && !filepath.IsAbs(opts.Geometry) {
					opts.Geometry = filepath.Join(base, opts.Geometry)
				}
			}

			ds, err := pipeline.LoadDataset(opts.Dataset)
			if err != nil {
				return err
			}
			logger.Debug("loaded dataset", "path", opts.Dataset, "rows", ds.Len())

			var provider geo.PartProvider
			if opts.Geometry != "" {
				provider, err = pipeline.LoadGeometry(opts.Geometry)
			} else {
				provider, err = pipeline.SyntheticGeometry(ds, opts.IDVar)
			}
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(openCache(noCache, logger), nil, logger)

			p := newProgress(logger)
			result, err := runner.Execute(cmd.Context(), ds, provider, opts)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			p.done(fmt.Sprintf("Built layout for %d regions in %d groups",
				result.Stats.RegionCount, result.Stats.GroupCount))

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(opts.Dataset), filepath.Ext(opts.Dataset))
			for format, artifact := range result.Artifacts {
				path := filepath.Join(outDir, name+"."+format)
				if err := os.WriteFile(path, artifact, 0644); err != nil {
					return err
				}
				printFile(path)
			}
			printSuccess("Layout %s", result.SnapshotHash[:12])
			if result.CacheInfo.SnapshotHit {
				printDetail("snapshot from cache")
			}

			if summarize {
				fmt.Println()
				fmt.Print(renderSummary(result.Snapshot))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "TOML display spec file")
	cmd.Flags().StringVar(&dsPath, "dataset", "", "CSV dataset path")
	cmd.Flags().StringVar(&geoPath, "geometry", "", "CSV polygon-part table (region_id,part_id)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "artifact formats (json, svg)")
	cmd.Flags().StringVar(&spacing, "spacing", "", "vertical spacing policy (equal, max)")
	cmd.Flags().IntVar(&nGroups, "groups", 0, "target group count (0 = heuristic)")
	cmd.Flags().StringVar(&idVar, "id-var", "", "unique region id column")
	cmd.Flags().StringVar(&groupVar, "group-var", "", "grouping/ordering variable")
	cmd.Flags().StringSliceVar(&plotVars, "var", nil, "additional plotted variables")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache for this run")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache entirely")
	cmd.Flags().BoolVar(&summarize, "summary", false, "print the group/row summary")

	return cmd
}

// openCache opens the file-backed layout cache, falling back to a null cache
// when disabled or unavailable.
func openCache(disabled bool, logger *log.Logger) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err == nil {
		var c cache.Cache
		if c, err = cache.NewFileCache(dir); err == nil {
			return c
		}
	}
	logger.Warn("layout cache unavailable, continuing without", "err", err)
	return cache.NewNullCache()
}
