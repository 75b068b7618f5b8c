package repository

import (
	"context"
	"errors"

	"github.com/octopus12176/tokimeki-checker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavingsRepo 每用户一个累计节约额，原子加 / 清零 / 读取
// 清零只动这里，历史记录的 saved 标记原样保留
type SavingsRepo interface {
	Total(ctx context.Context, userID string) (float64, error)
	// IncrBy 原子加，amount 为 0 时定义为 no-op
	IncrBy(ctx context.Context, userID string, amount float64) error
	Reset(ctx context.Context, userID string) error
}

type savingsRepo struct {
	db *gorm.DB
}

// NewSavingsRepo 构造函数
func NewSavingsRepo(db *gorm.DB) SavingsRepo {
	return &savingsRepo{db: db}
}

func (r *savingsRepo) Total(ctx context.Context, userID string) (float64, error) {
	var entry model.SavingsEntity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 从没写过就是 0
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Total, nil
}

func (r *savingsRepo) IncrBy(ctx context.Context, userID string, amount float64) error {
	if amount == 0 {
		return nil
	}
	// upsert：首次写入直接建行，已有行走 total = total + ?，加法在数据库侧完成
	entry := model.SavingsEntity{UserID: userID, Total: amount}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"total": gorm.Expr("total + ?", amount)}),
	}).Create(&entry).Error
}

func (r *savingsRepo) Reset(ctx context.Context, userID string) error {
	entry := model.SavingsEntity{UserID: userID, Total: 0}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"total": 0}),
	}).Create(&entry).Error
}
