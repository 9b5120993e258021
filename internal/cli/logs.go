package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/s22625/tkoview/internal/detail"
	"github.com/s22625/tkoview/internal/model"
	"github.com/s22625/tkoview/internal/rpc"
	"github.com/spf13/cobra"
)

// logAliases names the detail page's log files on the command line, in
// display order.
var logAliases = []string{"stdout", "stderr", "status", "autoserv-stdout", "autoserv-stderr"}

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs TEST_ID [NAME]",
		Short: "Print a job log file",
		Long: `Print one of a test's log files to stdout.

NAME is one of stdout, stderr, status, autoserv-stdout or
autoserv-stderr. Without NAME the available logs are listed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return runLogs(args[0], name)
		},
	}

	return cmd
}

func runLogs(idStr, name string) error {
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

	viewers := detail.BuildLogViewers(record.TestName)
	if name == "" {
		return listLogs(viewers)
	}

	idx := -1
	for i, alias := range logAliases {
		if alias == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		fmt.Fprintf(os.Stderr, "unknown log %q (one of: %s)\n", name, strings.Join(logAliases, ", "))
		os.Exit(ExitInvalidID)
		return nil
	}

	content, err := client.FetchLog(context.Background(), record.JobTag, viewers[idx].Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitTransport)
		return err
	}

	if content == "" {
		fmt.Fprintln(os.Stderr, "Log file is empty")
		return nil
	}

	fmt.Print(content)
	return nil
}

func listLogs(viewers []*detail.LogViewer) error {
	for i, v := range viewers {
		fmt.Printf("%-16s %-20s %s\n", logAliases[i], v.Name, v.Path)
	}
	return nil
}
