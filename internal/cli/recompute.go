package cli

import (
	"fmt"
	"io"

	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/spf13/cobra"
)

// RecomputeOptions 是 recompute 命令的参数
type RecomputeOptions struct {
	*RootOptions
	From string
	To   string
}

// NewRecomputeCommand 创建 recompute 命令，重新结算一个日期区间
func NewRecomputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecomputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Re-settle every day in a date range",
		Long: `Re-settle every day in [from, to] from the current entry ledger.
Days without entries are skipped and keep no winner record.

Example:
  waterctl recompute --from 2026-10-01 --to 2026-10-14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := datekey.Parse(opts.From)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --from", err)
			}
			to, err := datekey.Parse(opts.To)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --to", err)
			}
			if from > to {
				return WrapExitError(ExitCommandError, "invalid range", fmt.Errorf("%s is after %s", from, to))
			}

			e, err := openEnv(opts.RootOptions, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			results, err := e.modules.Resolver.ResolveRange(cmd.Context(), from, to)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to recompute winners", err)
			}
			return emit(cmd.OutOrStdout(), opts.Format, results, func(w io.Writer) {
				for _, r := range results {
					fmt.Fprintf(w, "%s: %s won with %d oz\n", r.Date, r.Winner, r.Amount)
				}
				fmt.Fprintf(w, "%d of %d days settled\n", len(results), len(datekey.Days(from, to)))
			})
		},
	}
	cmd.Flags().StringVar(&opts.From, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
