package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/s22625/tkoview/internal/config"
	"github.com/s22625/tkoview/internal/results"
	"github.com/s22625/tkoview/internal/stub"
	"github.com/spf13/cobra"
)

type stubOptions struct {
	Addr string
	Data string
}

func newStubCmd() *cobra.Command {
	opts := &stubOptions{}

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a local results directory",
		Long: `Run a stub results server over a local directory.

The directory holds a tests.yaml fixture describing the test rows plus
the per-job log trees it references. The server answers the same RPC
and log endpoints a production frontend does, so the viewer can be
pointed at it with --server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStub(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8000", "Listen address")
	cmd.Flags().StringVar(&opts.Data, "data", "", "Results directory with a tests.yaml fixture")

	return cmd
}

func runStub(opts *stubOptions) error {
	if opts.Data == "" {
		return fmt.Errorf("--data is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := results.Open(config.ExpandPath(opts.Data, ""))
	if err != nil {
		return err
	}

	srv := stub.New(store, cfg, newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, opts.Addr)
}
