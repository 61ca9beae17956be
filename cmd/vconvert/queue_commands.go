package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vconvert/internal/queue"
	"vconvert/internal/textutil"
)

func newQueueCommand(ctx *commandContext, configFlag *string) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the pending-work queue",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig(*configFlag)
			return err
		},
	}

	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueStatsCommand(ctx))
	queueCmd.AddCommand(newQueueExtensionsCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var sortFlag string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List pending files",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := queue.ParseSortOrder(sortFlag)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				pending, err := store.Pending(cmd.Context(), queue.Filter{Limit: limit, Sort: order})
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(pending))
				for _, record := range pending {
					rows = append(rows, []string{
						record.Path,
						string(record.Action),
						record.Info.Codec,
						textutil.FormatBitrate(record.Info.BitrateKbps),
						textutil.FormatSize(record.Info.SizeBytes),
						textutil.FormatSeconds(record.Info.DurationSeconds),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]tableColumn{col("Path"), col("Action"), col("Codec"), numCol("Bitrate"), numCol("Size"), numCol("Duration")},
					rows,
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum rows to display (0 = all)")
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "Row order: bitrate, size, duration, resolution, impact, or name")
	return cmd
}

func newQueueStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Pending files: %d (remux %d, convert %d)\n", stats.Total, stats.Remux, stats.Convert)
				fmt.Fprintf(out, "Total size:    %s\n", textutil.FormatSize(stats.TotalBytes))
				fmt.Fprintf(out, "Total runtime: %s\n", textutil.FormatSeconds(stats.TotalSeconds))
				return nil
			})
		},
	}
}

func newQueueExtensionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extensions",
		Short: "Show pending files grouped by source extension",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				stats, err := store.ExtensionStats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(stats))
				for _, stat := range stats {
					rows = append(rows, []string{
						stat.Extension,
						strconv.Itoa(stat.Count),
						textutil.FormatSize(stat.TotalBytes),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]tableColumn{col("Extension"), numCol("Count"), numCol("Size")},
					rows,
				))
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every pending record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				dropped, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d records\n", dropped)
				return nil
			})
		},
	}
}
