package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/winner"
	"github.com/spf13/cobra"
)

// ResolveOptions 是 resolve 命令的参数
type ResolveOptions struct {
	*RootOptions
	Date string
}

// NewResolveCommand 创建 resolve 命令，结算某一天（默认今天）的胜者
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Settle the winner of one day",
		Long: `Settle the winner of one day and store it, replacing any earlier result.

Example:
  waterctl resolve
  waterctl resolve --date 2026-10-13`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Date, "date", "", "day to settle (YYYY-MM-DD), defaults to today")
	return cmd
}

func runResolve(cmd *cobra.Command, opts *ResolveOptions) error {
	var day datekey.Key
	if opts.Date != "" {
		var err error
		if day, err = datekey.Parse(opts.Date); err != nil {
			return WrapExitError(ExitCommandError, "invalid --date", err)
		}
	}

	e, err := openEnv(opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer e.Close()
	if day == "" {
		day = e.modules.Clock.Today()
	}

	res, err := e.modules.Resolver.Resolve(cmd.Context(), day)
	if errors.Is(err, winner.ErrNoEntries) {
		return emit(cmd.OutOrStdout(), opts.Format, map[string]string{"date": day.String(), "message": "no entries"}, func(w io.Writer) {
			fmt.Fprintf(w, "%s: no entries\n", day)
		})
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to resolve winner", err)
	}
	return emit(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %s won with %d oz\n", res.Date, res.Winner, res.Amount)
	})
}
