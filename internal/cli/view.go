package cli

import (
	"fmt"
	"os"

	"github.com/s22625/tkoview/internal/detail"
	"github.com/s22625/tkoview/internal/rpc"
	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [TEST_ID]",
		Short: "Browse a test interactively",
		Long: `Open the interactive detail viewer.

With TEST_ID the viewer fetches that test immediately. Without it the
viewer starts empty; press i to enter an ID.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runView(id)
		},
	}

	return cmd
}

func runView(idStr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newFileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client := rpc.New(cfg, logger)
	page := detail.New(client, detail.NewNotifyBar(), detail.NewConditionPanel())

	if idStr != "" {
		if err := page.SetObjectID(idStr); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitInvalidID)
			return err
		}
	}

	return page.Run()
}
