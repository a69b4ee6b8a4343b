// Package cli 实现运维命令行 waterctl。
package cli

import (
	"fmt"
	"slices"

	"github.com/SlpAus/water-wars-backend/internal/platform/config"
	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/platform/startup"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions 是所有子命令共用的全局参数
type RootOptions struct {
	ConfigDir string
	Format    string // "text" | "json"
}

// ValidFormats 是允许的输出格式
var ValidFormats = []string{"text", "json"}

// NewRootCommand 创建 waterctl 根命令
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "waterctl",
		Short: "Water Wars operations tool",
		Long:  "Migrate the store, settle winners, import entries and print stats for Water Wars.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", "", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewRecomputeCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))

	return cmd
}

// env 是一次命令执行所需的配置、连接和业务模块
type env struct {
	cfg     *config.Config
	db      *gorm.DB
	modules *startup.Modules
}

func (e *env) Close() error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// openEnv 加载配置、打开数据库并迁移表结构。
// clock 为nil时使用配置时区下的系统时钟。
func openEnv(opts *RootOptions, clock datekey.Provider) (*env, error) {
	var paths []string
	if opts.ConfigDir != "" {
		paths = append(paths, opts.ConfigDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	e := &env{cfg: cfg, db: db}
	if err := startup.MigrateAll(db); err != nil {
		e.Close()
		return nil, WrapExitError(ExitCommandError, "failed to migrate database", err)
	}
	e.modules, err = startup.NewModules(db, cfg.Game, clock)
	if err != nil {
		e.Close()
		return nil, WrapExitError(ExitCommandError, "invalid game config", err)
	}
	return e, nil
}
