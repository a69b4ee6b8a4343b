package entry

import (
	"time"
)

// Entry 定义了一条饮水记录在数据库中的结构
// 记录创建后不可修改，也不会被删除
type Entry struct {
	// ID 是创建时分配的UUID v7
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// Player 是参赛者标识，例如 "safari"
	Player string `gorm:"index;not null;type:varchar(32)" json:"player"`

	// Amount 是饮水量，单位为液量盎司，始终大于0
	Amount int `gorm:"not null" json:"amount"`

	// DateKey 是这条记录计入的日期 (YYYY-MM-DD)
	DateKey string `gorm:"index;not null;type:varchar(10)" json:"date"`

	// CreatedAt 由注入的时钟写入，不依赖gorm的自动时间戳
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}

// TableName 沿用原有的集合名
func (Entry) TableName() string {
	return "water_entries"
}

// Filter 是列出记录时的可选筛选条件，零值表示不限制
type Filter struct {
	DateFrom string
	DateTo   string
	Player   string
}
