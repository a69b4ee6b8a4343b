package winner

import (
	"time"
)

// Record 定义了每日胜者记录在数据库中的结构
// 每个日期至多一条记录，由 date_key 上的唯一索引保证
type Record struct {
	// ID 在首次写入时分配，之后的覆盖写入不会改变它
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// DateKey 是胜者所属的日期 (YYYY-MM-DD)
	DateKey string `gorm:"uniqueIndex;not null;type:varchar(10)" json:"date"`

	// WinningPlayer 是当天的胜者
	WinningPlayer string `gorm:"index;not null;type:varchar(32)" json:"player"`

	// WinningTotal 是胜者当天的总量
	WinningTotal int `gorm:"not null" json:"total_amount"`

	// ComputedAt 是最近一次结算的时间
	ComputedAt time.Time `json:"timestamp"`
}

// TableName 沿用原有的集合名
func (Record) TableName() string {
	return "daily_winners"
}
