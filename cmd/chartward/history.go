package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"helmsman-hq/chartward/pkg/history"
	"helmsman-hq/chartward/pkg/history/retention"
	"helmsman-hq/chartward/pkg/history/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and maintain validation run history",
}

var historyListFlags struct {
	chartName   string
	environment string
	since       time.Duration
	limit       int
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded validation runs",
	Long: `List recorded validation runs, newest first.

Examples:
  # The 20 most recent runs
  chartward history list --limit 20

  # Runs for one chart in production over the last week
  chartward history list --chart my-app --environment production --since 168h`,
	RunE: runHistoryList,
}

var historyPruneFlags struct {
	retentionDays int
	maxRecords    int
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old validation runs",
	Long: `Delete validation runs older than the retention period, then trim
the total record count. Flags override the configured retention policy.`,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyListFlags.chartName, "chart", "", "filter by chart name")
	historyListCmd.Flags().StringVarP(&historyListFlags.environment, "environment", "e", "", "filter by environment")
	historyListCmd.Flags().DurationVar(&historyListFlags.since, "since", 0, "only runs newer than this age (e.g. 24h)")
	historyListCmd.Flags().IntVar(&historyListFlags.limit, "limit", 50, "maximum number of runs to list")

	historyPruneCmd.Flags().IntVar(&historyPruneFlags.retentionDays, "retention-days", 0, "override configured retention period")
	historyPruneCmd.Flags().IntVar(&historyPruneFlags.maxRecords, "max-records", 0, "override configured maximum record count")
}

// openHistoryStorage opens the configured history database.
func openHistoryStorage() (history.Storage, *retention.Config, error) {
	cfg, err := loadConfiguration()
	if err != nil {
		return nil, nil, err
	}
	if _, err := setupLogging(cfg); err != nil {
		return nil, nil, err
	}

	store, err := storage.NewSQLiteStorage(storage.DefaultSQLiteConfig(cfg.History.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history storage: %w", err)
	}

	rc := &retention.Config{
		RetentionDays: cfg.History.RetentionDays,
		MaxRecords:    cfg.History.MaxRecords,
	}
	return store, rc, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, _, err := openHistoryStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	query := &history.Query{
		ChartName:   historyListFlags.chartName,
		Environment: historyListFlags.environment,
		Limit:       historyListFlags.limit,
	}
	if historyListFlags.since > 0 {
		query.Since = time.Now().Add(-historyListFlags.since)
	}

	records, err := store.Query(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No validation runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tCHART\tENV\tRESULT\tVIOLATIONS\tWARNINGS\tDURATION")
	for _, r := range records {
		outcome := "PASS"
		if !r.Valid {
			outcome = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.RFC3339),
			r.ChartName,
			r.Environment,
			outcome,
			r.ViolationCount,
			r.WarningCount,
			r.Duration,
		)
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, rc, err := openHistoryStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	if historyPruneFlags.retentionDays > 0 {
		rc.RetentionDays = historyPruneFlags.retentionDays
	}
	if historyPruneFlags.maxRecords > 0 {
		rc.MaxRecords = historyPruneFlags.maxRecords
	}

	pruner := retention.NewPruner(store, rc)
	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Pruned %d run(s).\n", deleted)
	return nil
}
