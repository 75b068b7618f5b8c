package repository

import (
	"context"
	"errors"

	"github.com/octopus12176/tokimeki-checker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepo 用户档案，主键是 Google subject id
type UserRepo interface {
	// Upsert 登录时调用，姓名头像以 Google 最新资料为准
	Upsert(ctx context.Context, user *model.User) error
	Find(ctx context.Context, id string) (*model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 构造函数
func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Upsert(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "picture", "updated_at"}),
	}).Create(user).Error
}

func (r *userRepo) Find(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
