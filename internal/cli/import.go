package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/entry"
	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"github.com/google/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const (
	importAttempts = 3
	importBackoff  = 100 * time.Millisecond
)

// ImportFile 是导入文件的结构
type ImportFile struct {
	Entries []ImportEntry `yaml:"entries"`
}

// ImportEntry 是导入文件中的一条饮水记录
type ImportEntry struct {
	Player string `yaml:"player"`
	Amount int    `yaml:"amount"`
	Date   string `yaml:"date"`
}

// ImportResult 汇总一次导入
type ImportResult struct {
	Imported int `json:"imported"`
}

// NewImportCommand 创建 import 命令
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Append entries from a YAML file",
		Long: `Append every entry of a YAML file to the ledger. The whole file is
validated before anything is written, and all entries are written in one
transaction: a failed import leaves the ledger unchanged.

File format:
  entries:
    - player: safari
      amount: 16
      date: "2026-10-14"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readImportFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read import file", err)
			}

			e, err := openEnv(opts, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := importEntries(cmd.Context(), e.db, e.modules.Entries, file)
			if err != nil {
				return WrapExitError(ExitFailure, "import failed, no entries written", err)
			}
			return emit(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
				fmt.Fprintf(w, "imported %d entries\n", res.Imported)
			})
		},
	}
}

func readImportFile(path string) (*ImportFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file ImportFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &file, nil
}

// importEntries 先在内存中校验全部记录，然后在同一个事务中写入。
// SQLite忙或PostgreSQL序列化失败时整个事务重试。
func importEntries(ctx context.Context, db *gorm.DB, ledger *entry.Ledger, file *ImportFile) (ImportResult, error) {
	for i, in := range file.Entries {
		if _, _, err := ledger.Validate(in.Player, in.Amount, in.Date); err != nil {
			return ImportResult{}, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	var err error
	for attempt := 1; attempt <= importAttempts; attempt++ {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txLedger := ledger.WithTx(tx)
			for i, in := range file.Entries {
				if _, err := txLedger.Append(ctx, in.Player, in.Amount, in.Date); err != nil {
					return fmt.Errorf("entry %d: %w", i+1, err)
				}
			}
			return nil
		})
		if err == nil || !database.IsRetryableError(err) {
			break
		}
		logger.Warningf("导入时数据库繁忙，第 %d 次重试...", attempt)
		time.Sleep(time.Duration(attempt) * importBackoff)
	}
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Imported: len(file.Entries)}
	logger.Infof("导入完成，共 %d 条记录", res.Imported)
	return res, nil
}
