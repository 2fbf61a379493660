package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dotcommander/atscore/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scorer over HTTP",
	Long: `Start an HTTP service that scores resumes.

ENDPOINTS:

  POST /score    Body: a resume JSON document. Returns the score report,
                 or null for a null or empty body.
  GET  /health   Service status and version.
  GET  /metrics  Prometheus metrics.

Requests to /score are rate limited per client and capped in size
(serve.rateLimit and serve.maxRequestSize in .atscorerc).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (host:port)")
	bindServeFlags()
}

func bindServeFlags() {
	if err := viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(cfg.Serve, Version, log)
	if err != nil {
		return err
	}

	log.Info("atscore service", zap.String("version", Version), zap.String("addr", cfg.Serve.Addr))
	return srv.Run(cmd.Context())
}
