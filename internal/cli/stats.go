package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// StatsOptions 是 stats 命令的参数
type StatsOptions struct {
	*RootOptions
	Days int
}

// NewStatsCommand 创建 stats 命令
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print totals and wins for a window ending today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts.RootOptions, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			days := opts.Days
			if days == 0 {
				days = e.cfg.Game.DefaultWindowDays
			}
			report, err := e.modules.Stats.ForWindow(cmd.Context(), days)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to compute stats", err)
			}
			return emit(cmd.OutOrStdout(), opts.Format, report, func(w io.Writer) {
				fmt.Fprintf(w, "last %d days\n", days)
				for _, id := range e.modules.Roster.IDs() {
					s := report[id]
					fmt.Fprintf(w, "%-10s total=%d oz wins=%d\n", id, s.Total, s.Wins)
				}
			})
		},
	}
	cmd.Flags().IntVar(&opts.Days, "days", 0, "window length in days, defaults to game.defaultWindowDays")
	return cmd
}
