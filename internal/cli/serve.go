package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cartoviz/micromap/internal/api"
	"github.com/cartoviz/micromap/pkg/cache"
	"github.com/cartoviz/micromap/pkg/pipeline"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var (
		addr      string
		redisAddr string
		redisDB   int
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Serve starts an HTTP server exposing the layout pipeline. Clients POST a
dataset plus display options to /v1/layout and receive the computed snapshot
and rendered artifacts. The server is stateless between requests; layouts are
cached on disk, or in Redis when --redis is given.`,
		Example: `  micromap serve --addr :8080
  micromap serve --redis localhost:6379`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var store cache.Cache
			switch {
			case noCache:
				store = cache.NewNullCache()
			case redisAddr != "":
				var err error
				store, err = cache.NewRedisCache(cmd.Context(), cache.RedisConfig{
					Addr: redisAddr,
					DB:   redisDB,
				})
				if err != nil {
					return err
				}
				logger.Info("using redis cache", "addr", redisAddr)
			default:
				store = openCache(false, logger)
			}
			defer store.Close()

			runner := pipeline.NewRunner(store, nil, logger)
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.New(runner, logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the layout cache")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}
