package model

import "time"

// User 的主键直接沿用 Google 返回的 subject id
// 每次登录都会 upsert 一次，姓名头像跟着 Google 资料走
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Email     string    `gorm:"type:varchar(255);index" json:"email"`
	Picture   string    `gorm:"type:varchar(512)" json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
