package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediaprep/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `List recent runs from the run ledger, or the per-file outcomes of one run.

Examples:
  mediaprep history              # Last 10 runs
  mediaprep history --limit 50   # Last 50 runs
  mediaprep history --run 12     # Files converted, failed and grouped in run #12
  mediaprep history --run 12 --event failed`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 10, "Maximum number of rows")
	historyCmd.Flags().Int64("run", 0, "Show entries of this run")
	historyCmd.Flags().String("event", "", "Filter entries by event (converted, failed, grouped)")
	historyCmd.Flags().Bool("json", false, "Output as JSON")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetInt64("run")
	event, _ := cmd.Flags().GetString("event")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(cfg.History.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "No runs recorded (%s does not exist)\n", cfg.History.Path)
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if runID == 0 {
		runs, err := store.Runs(ctx, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out, runs)
		}
		printRuns(out, runs)
		return nil
	}

	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	filter := history.Filter{RunID: &runID, Limit: limit}
	if event != "" {
		filter.Event = &event
	}
	entries, err := store.List(ctx, filter)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(out, map[string]any{"run": run, "entries": entries})
	}
	printRun(out, run, entries)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRuns(w io.Writer, runs []*history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	fmt.Fprintf(w, "  %-4s %-19s %-10s %-11s %9s %6s  %s\n", "ID", "STARTED", "STATUS", "ENCODER", "CONVERTED", "FAILED", "INPUT")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 86))
	for _, r := range runs {
		fmt.Fprintf(w, "  %-4d %-19s %-10s %-11s %9d %6d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status, r.Encoder, r.Converted, r.Failed, r.InputRoot)
	}
}

func printRun(w io.Writer, r *history.Run, entries []*history.Entry) {
	fmt.Fprintf(w, "Run #%d (%s)\n", r.ID, r.Status)
	fmt.Fprintf(w, "  Started:   %s\n", r.StartedAt.Local().Format(time.DateTime))
	if r.FinishedAt != nil {
		fmt.Fprintf(w, "  Finished:  %s (%s)\n", r.FinishedAt.Local().Format(time.DateTime), r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	}
	fmt.Fprintf(w, "  Input:     %s\n", r.InputRoot)
	fmt.Fprintf(w, "  Output:    %s\n", r.OutputRoot)
	fmt.Fprintf(w, "  Encoder:   %s\n", r.Encoder)
	fmt.Fprintf(w, "  Converted: %d, failed: %d\n", r.Converted, r.Failed)

	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, e := range entries {
		line := fmt.Sprintf("  %-9s %s", e.Event, e.Path)
		if e.Event == history.EventFailed && e.Detail != "" {
			line += ": " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}
