package metadata

// 这些键用于 metadata 表的 key 列
const (
	// LastSettledDayKey 记录结算调度器最近一次结算的日期，
	// 进程重启后据此对前一天补做最终结算。
	LastSettledDayKey = "scheduler_last_settled_day"

	// LastBackupAtKey 记录最近一次成功备份的时间 (RFC3339)
	LastBackupAtKey = "last_backup_at"

	// LastBackupFileKey 记录最近一次成功备份的文件路径
	LastBackupFileKey = "last_backup_file"
)
