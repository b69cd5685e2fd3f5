package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/pricelens/internal/config"
	"github.com/rshade/pricelens/internal/loader"
	"github.com/rshade/pricelens/internal/logging"
	"github.com/rshade/pricelens/internal/server"
)

// NewServeCmd creates the serve command, which publishes the pricing CSV and
// the derived chart dataset over HTTP until interrupted.
func NewServeCmd() *cobra.Command {
	var (
		addr      string
		root      string
		rateLimit int
		rateBurst int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricing CSV and chart dataset over HTTP",
		Long: `Starts an HTTP server with these routes:

  GET <data.path>    the raw pricing CSV (default /data/model_prices.csv)
  GET /api/prices    the chart dataset as JSON; query: tier, mode, model (repeatable)
  GET /healthz       liveness probe`,
		Example: `  # Serve ./data/model_prices.csv on :8080
  pricelens serve

  # Serve on another port without rate limiting
  pricelens serve --addr :9000 --rate-limit 0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			srvCfg := server.Config{
				Addr:      cfg.Server.Addr,
				DataPath:  cfg.Data.Path,
				RateLimit: cfg.Server.RateLimit,
				RateBurst: cfg.Server.RateBurst,
			}
			if cmd.Flags().Changed("addr") {
				srvCfg.Addr = addr
			}
			if cmd.Flags().Changed("rate-limit") {
				srvCfg.RateLimit = rateLimit
			}
			if cmd.Flags().Changed("rate-burst") {
				srvCfg.RateBurst = rateBurst
			}
			dataRoot := cfg.Data.Root
			if root != "" {
				dataRoot = root
			}

			// The server always reads the local file; it is the origin others fetch from.
			src := loader.New(loader.WithRoot(dataRoot))
			srv := server.New(srvCfg, src, *logging.FromContext(cmd.Context()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultServerAddr, "listen address")
	cmd.Flags().StringVar(&root, "root", "", "directory the data path is resolved against (default from config)")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", config.DefaultRateLimit, "requests per second per client IP, 0 disables")
	cmd.Flags().IntVar(&rateBurst, "rate-burst", config.DefaultRateBurst, "burst size per client IP")

	return cmd
}
