package cli

import (
	"fmt"
	"io"

	"github.com/SlpAus/water-wars-backend/internal/platform/backup"
	"github.com/spf13/cobra"
)

// NewBackupCommand 创建 backup 命令，立即生成一份SQLite快照
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot of the SQLite database to backup.dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			s := backup.NewSnapshotter(e.db, e.modules.Metadata, e.cfg.Backup)
			if !s.Supported() {
				return WrapExitError(ExitCommandError, "backup needs the sqlite driver", nil)
			}
			path, err := s.Snapshot(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "backup failed", err)
			}
			return emit(cmd.OutOrStdout(), opts.Format, map[string]string{"file": path}, func(w io.Writer) {
				fmt.Fprintf(w, "snapshot written to %s\n", path)
			})
		},
	}
}
