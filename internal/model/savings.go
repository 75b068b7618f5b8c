package model

import "time"

// SavingsEntity 每个用户一行，只存累计节约额
// 和历史记录完全解耦：清零不动历史，清历史也不动它
type SavingsEntity struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)" json:"-"`
	Total     float64   `gorm:"type:decimal(14,2)" json:"total"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 强制指定表名
func (SavingsEntity) TableName() string {
	return "savings"
}
