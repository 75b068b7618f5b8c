package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
)

// RecentSavedLimit 节约一览里最多展示的最近记录条数
const RecentSavedLimit = 20

// MonthlyAmount 某个月的节约合计，Month 形如 "2026-08"
type MonthlyAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// SavingsOverview 节约画面一次要的全部数据
type SavingsOverview struct {
	TotalSaved float64             `json:"totalSaved"`
	Monthly    []MonthlyAmount     `json:"monthly"`
	SavedItems []model.CheckEntity `json:"savedItems"`
}

// SavingsService 节约额的聚合视图与清零
type SavingsService struct {
	checkRepo   repository.CheckRepo
	savingsRepo repository.SavingsRepo
}

// NewSavingsService 构造函数
func NewSavingsService(checkRepo repository.CheckRepo, savingsRepo repository.SavingsRepo) *SavingsService {
	return &SavingsService{
		checkRepo:   checkRepo,
		savingsRepo: savingsRepo,
	}
}

// Overview 累计 + 月别内訳 + 最近的节约记录
// 只读路径，存储挂了降级成空视图
func (s *SavingsService) Overview(ctx context.Context, userID string) (*SavingsOverview, error) {
	records, err := s.checkRepo.List(ctx, userID, repository.HistoryLimit)
	if err != nil {
		slog.Error("履歴の取得に失敗、節約画面は空で返す", "uid", userID, "err", err)
		records = nil
	}
	total, err := s.savingsRepo.Total(ctx, userID)
	if err != nil {
		slog.Error("節約額の取得に失敗、0で返す", "uid", userID, "err", err)
		total = 0
	}

	return &SavingsOverview{
		TotalSaved: total,
		Monthly:    MonthlyBreakdown(records),
		SavedItems: RecentSavedItems(records, RecentSavedLimit),
	}, nil
}

// Reset 把累计节约额清零，历史记录一条不动
func (s *SavingsService) Reset(ctx context.Context, userID string) error {
	return s.savingsRepo.Reset(ctx, userID)
}

// MonthlyBreakdown 从历史记录推导月别节约合计
// 纯函数：只看 skipped 且价格>0 的记录，按 CreatedAt 归到 YYYY-MM 桶，
// 桶按月份字符串倒序（零填充所以字典序即时间序）
func MonthlyBreakdown(records []model.CheckEntity) []MonthlyAmount {
	byMonth := make(map[string]float64)
	for _, r := range records {
		if r.Decision != model.DecisionSkipped || r.ItemPrice <= 0 {
			continue
		}
		// CreatedAt 缺失时归到"现在"——已知的不精确点，沿袭既有行为
		t := time.Now()
		if r.CreatedAt > 0 {
			t = time.UnixMilli(r.CreatedAt)
		}
		key := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
		byMonth[key] += r.ItemPrice
	}

	monthly := make([]MonthlyAmount, 0, len(byMonth))
	for month, amount := range byMonth {
		monthly = append(monthly, MonthlyAmount{Month: month, Amount: amount})
	}
	sort.Slice(monthly, func(i, j int) bool {
		return monthly[i].Month > monthly[j].Month
	})
	return monthly
}

// RecentSavedItems 取最近的节约记录
// 不重排：入参本来就是新→旧，过滤后截断即可
func RecentSavedItems(records []model.CheckEntity, limit int) []model.CheckEntity {
	items := make([]model.CheckEntity, 0, limit)
	for _, r := range records {
		if r.Decision != model.DecisionSkipped || r.ItemPrice <= 0 {
			continue
		}
		items = append(items, r)
		if len(items) >= limit {
			break
		}
	}
	return items
}
