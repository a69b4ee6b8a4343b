package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewMigrateCommand 创建 migrate 命令
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts, nil)
			if err != nil {
				return err
			}
			defer e.Close()
			driver := e.cfg.Database.Driver
			return emit(cmd.OutOrStdout(), opts.Format, map[string]string{"driver": driver, "result": "migrated"}, func(w io.Writer) {
				fmt.Fprintf(w, "migrated %s database\n", driver)
			})
		},
	}
}
