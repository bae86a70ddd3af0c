package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaeldejesus03/BeFit/internal/gamification"
)

func newProgressCmd(opts *options) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "progress <uid>",
		Short: "Print the progress record of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			p, err := b.recorder.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var v any = p
			if summary {
				v = gamification.Summarize(p)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print the achievements summary instead of the raw record")
	return cmd
}

func newRecordCmd(opts *options) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "record <uid> <workout|water|meal|ai_chat>",
		Short: "Record activity events for a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := gamification.ParseActivityKind(args[1])
			if err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			b, err := opts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			out := cmd.OutOrStdout()
			var last *gamification.RecordResult
			for i := 0; i < count; i++ {
				res, err := b.recorder.Record(cmd.Context(), args[0], kind)
				if err != nil {
					return err
				}
				if len(res.NewBadges) > 0 {
					fmt.Fprintf(out, "unlocked: %s\n", joinBadges(res.NewBadges))
				}
				if res.LeveledUp {
					fmt.Fprintf(out, "level up: %s -> %s\n", res.PreviousLevel, res.Progress.LevelName)
				}
				last = res
			}
			fmt.Fprintf(out, "%s: %d XP, level %s\n", args[0], last.Progress.XP, last.Progress.LevelName)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of events to record")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the achievement catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := gamification.Category(category)
			if c != "" && !knownCategory(c) {
				return fmt.Errorf("unknown category: %s", category)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tCATEGORY\tTITLE\tREQUIREMENT")
			for _, def := range gamification.CatalogByCategory(c) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Key, def.Category, def.Title, def.Requirement)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list one category")
	return cmd
}

func newReconcileCmd(opts *options) *cobra.Command {
	var since time.Duration
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair records whose level or badges lag behind their counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			lookback := since
			if lookback <= 0 {
				lookback = b.cfg.ReconcileLookback()
			}
			report, err := b.reconciler.Reconcile(cmd.Context(), time.Now().Add(-lookback))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "visited %d, repaired %d, failed %d\n",
				report.Visited, report.Repaired, report.Failed)
			if report.Failed > 0 {
				return fmt.Errorf("%d records could not be repaired", report.Failed)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&since, "since", 0, "only visit records updated within this window (default from config)")
	return cmd
}

func knownCategory(c gamification.Category) bool {
	for _, known := range gamification.Categories() {
		if known == c {
			return true
		}
	}
	return false
}

func joinBadges(keys []gamification.BadgeKey) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
