package service

import (
	"context"
	"log/slog"

	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
)

// HistoryService 历史账本 + 购买决定的生命周期
type HistoryService struct {
	checkRepo   repository.CheckRepo
	savingsRepo repository.SavingsRepo
}

// NewHistoryService 构造函数
func NewHistoryService(checkRepo repository.CheckRepo, savingsRepo repository.SavingsRepo) *HistoryService {
	return &HistoryService{
		checkRepo:   checkRepo,
		savingsRepo: savingsRepo,
	}
}

// List 历史列表 + 累计节约额
// 只读路径，存储挂了就降级成空列表，不把报错甩给用户
func (s *HistoryService) List(ctx context.Context, userID string) ([]model.CheckEntity, float64, error) {
	records, err := s.checkRepo.List(ctx, userID, repository.HistoryLimit)
	if err != nil {
		slog.Error("履歴の取得に失敗、空で返す", "uid", userID, "err", err)
		return []model.CheckEntity{}, 0, nil
	}
	total, err := s.savingsRepo.Total(ctx, userID)
	if err != nil {
		slog.Error("節約額の取得に失敗、0で返す", "uid", userID, "err", err)
		total = 0
	}
	if records == nil {
		records = []model.CheckEntity{}
	}
	return records, total, nil
}

// Resolve 记录购买决定，一条记录只能决定一次
// bought=true → 买了（不节约）；bought=false → 忍住了，价格计入节约额
//
// 注意这里是两次独立写入：先改记录，再加节约额。
// 中间崩溃会留下"已决定但没计入"的记录——个人记账工具可以接受，
// 所以加节约额失败只记日志，不回滚也不报错给用户。
func (s *HistoryService) Resolve(ctx context.Context, userID, recordID string, bought bool) (*model.CheckEntity, float64, error) {
	decision := model.DecisionSkipped
	if bought {
		decision = model.DecisionBought
	}

	record, err := s.checkRepo.Resolve(ctx, userID, recordID, decision)
	if err != nil {
		// ErrNotFound / ErrAlreadyDecided 原样透传，controller 负责翻译成状态码
		return nil, 0, err
	}

	if decision == model.DecisionSkipped && record.ItemPrice > 0 {
		if err := s.savingsRepo.IncrBy(ctx, userID, record.ItemPrice); err != nil {
			slog.Error("節約額の加算に失敗（記録は決定済みのまま）", "uid", userID, "record", recordID, "err", err)
		}
	}

	total, err := s.savingsRepo.Total(ctx, userID)
	if err != nil {
		slog.Error("節約額の取得に失敗", "uid", userID, "err", err)
		total = 0
	}

	slog.Info("購入決定を記録", "uid", userID, "record", recordID, "decision", decision)
	return record, total, nil
}

// Delete 删除单条历史
func (s *HistoryService) Delete(ctx context.Context, userID, recordID string) error {
	return s.checkRepo.Delete(ctx, userID, recordID)
}

// Clear 清空该用户的全部历史，不可逆；节约额不受影响
func (s *HistoryService) Clear(ctx context.Context, userID string) error {
	return s.checkRepo.ClearAll(ctx, userID)
}
