package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/s22625/tkoview/internal/detail"
	"github.com/s22625/tkoview/internal/model"
	"github.com/s22625/tkoview/internal/rpc"
	"github.com/spf13/cobra"
)

type showOptions struct {
	JSON bool
}

func newShowCmd() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show TEST_ID",
		Short: "Print test details",
		Long: `Print the detail page for one test run.

TEST_ID is the numeric test index assigned by the results database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

func runShow(idStr string, opts *showOptions) error {
	testIdx, err := model.ParseTestIdx(idStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitInvalidID)
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := rpc.New(cfg, newLogger(cfg))

	record, err := client.DetailedTestView(context.Background(), testIdx)
	if err != nil {
		fmt.Fprintln(os.Stderr, fetchErrorText(err))
		os.Exit(fetchExitCode(err))
		return err
	}

	if opts.JSON {
		return showJSON(record)
	}

	return showHuman(record)
}

func showJSON(record *model.TestRecord) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

func showHuman(record *model.TestRecord) error {
	// Header
	fmt.Println(record.Title())
	fmt.Println(strings.Repeat("-", 60))

	fmt.Printf("Status:   %s\n", record.Status)
	fmt.Printf("Job:      %s (%s)\n", record.JobTag, record.JobName)
	fmt.Printf("Reason:   %s\n", record.Reason)
	fmt.Printf("Started:  %s\n", record.StartedTime)
	fmt.Printf("Finished: %s\n", record.FinishedTime)
	fmt.Printf("Host:     %s\n", record.Hostname)
	fmt.Printf("Platform: %s\n", record.Platform)
	fmt.Printf("Kernel:   %s\n", record.Kernel)
	fmt.Printf("Labels:   %s\n", record.LabelText())

	fmt.Println()
	fmt.Println("Attributes:")
	for _, row := range detail.AttributeRows(record.Attributes) {
		if row.Key == "" {
			fmt.Printf("  %s\n", row.Value)
			continue
		}
		fmt.Printf("  %s = %s\n", row.Key, row.Value)
	}

	return nil
}
