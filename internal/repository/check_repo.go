package repository

import (
	"context"
	"errors"

	"github.com/octopus12176/tokimeki-checker/internal/model"
	"gorm.io/gorm"
)

// HistoryLimit 每个用户最多保留的历史条数，超出的最旧记录被静默淘汰
const HistoryLimit = 100

var (
	// ErrNotFound 该用户名下没有这条记录
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyDecided 记录已经做过购买决定，决定只能做一次
	ErrAlreadyDecided = errors.New("record already decided")
)

// CheckRepo 历史账本的存取接口 (为了方便 Mock 和内存实现)
// 所有操作都以 userID 为边界，不存在跨用户访问
type CheckRepo interface {
	// Append 头部插入，超过 HistoryLimit 时淘汰最旧的
	Append(ctx context.Context, record *model.CheckEntity) error
	// List 按新→旧返回最多 limit 条
	List(ctx context.Context, userID string, limit int) ([]model.CheckEntity, error)
	GetByID(ctx context.Context, userID, id string) (*model.CheckEntity, error)
	// Resolve 把未决定记录原地改成给定决定，位置不变
	// 已决定返回 ErrAlreadyDecided，不存在返回 ErrNotFound
	Resolve(ctx context.Context, userID, id string, decision model.Decision) (*model.CheckEntity, error)
	Delete(ctx context.Context, userID, id string) error
	ClearAll(ctx context.Context, userID string) error
}

// checkRepo GORM 实现
type checkRepo struct {
	db *gorm.DB
}

// NewCheckRepo 构造函数
func NewCheckRepo(db *gorm.DB) CheckRepo {
	return &checkRepo{db: db}
}

func (r *checkRepo) Append(ctx context.Context, record *model.CheckEntity) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}

	// 淘汰按插入顺序 (Seq)，不按时间戳——时间戳乱序也不影响排序
	// MySQL 不允许 DELETE 时子查询同一张表，所以分两步：先查出保留区间的下界
	var keep []uint64
	err := r.db.WithContext(ctx).Model(&model.CheckEntity{}).
		Where("user_id = ?", record.UserID).
		Order("seq DESC").Limit(HistoryLimit).
		Pluck("seq", &keep).Error
	if err != nil {
		return err
	}
	if len(keep) < HistoryLimit {
		return nil
	}
	cutoff := keep[len(keep)-1]
	return r.db.WithContext(ctx).
		Where("user_id = ? AND seq < ?", record.UserID, cutoff).
		Delete(&model.CheckEntity{}).Error
}

func (r *checkRepo) List(ctx context.Context, userID string, limit int) ([]model.CheckEntity, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	var records []model.CheckEntity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq DESC").Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *checkRepo) GetByID(ctx context.Context, userID, id string) (*model.CheckEntity, error) {
	var record model.CheckEntity
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *checkRepo) Resolve(ctx context.Context, userID, id string, decision model.Decision) (*model.CheckEntity, error) {
	// 条件更新就是并发护栏：两个请求抢同一条记录时只有一个能改到行，
	// 另一个 RowsAffected 为 0，走下面的分支拿到 ErrAlreadyDecided
	res := r.db.WithContext(ctx).Model(&model.CheckEntity{}).
		Where("user_id = ? AND id = ? AND decision = ?", userID, id, model.DecisionUndecided).
		Update("decision", decision)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// 区分"没这条记录"和"已经决定过"
		if _, err := r.GetByID(ctx, userID, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyDecided
	}
	return r.GetByID(ctx, userID, id)
}

func (r *checkRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.CheckEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *checkRepo) ClearAll(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CheckEntity{}).Error
}
