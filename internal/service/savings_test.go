package service

import (
	"context"
	"testing"
	"time"

	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
)

func ms(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local).UnixMilli()
}

func saved(id string, price float64, createdAt int64) model.CheckEntity {
	return model.CheckEntity{ID: id, ItemPrice: price, Decision: model.DecisionSkipped, CreatedAt: createdAt}
}

// 月别内訳は決定的：skipped かつ価格>0 だけを月バケツに集計、新しい月が先
func TestMonthlyBreakdown(t *testing.T) {
	records := []model.CheckEntity{
		saved("a", 500, ms(2026, time.January, 10)),
		saved("b", 300, ms(2026, time.January, 25)),
		{ID: "c", ItemPrice: 200, Decision: model.DecisionBought, CreatedAt: ms(2026, time.February, 5)}, // 買った分は除外
	}

	monthly := MonthlyBreakdown(records)
	if len(monthly) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(monthly), monthly)
	}
	if monthly[0].Month != "2026-01" || monthly[0].Amount != 800 {
		t.Errorf("got %+v, want {2026-01 800}", monthly[0])
	}
}

func TestMonthlyBreakdownSortDescending(t *testing.T) {
	records := []model.CheckEntity{
		saved("a", 100, ms(2025, time.November, 1)),
		saved("b", 200, ms(2026, time.February, 1)),
		saved("c", 300, ms(2025, time.December, 15)),
		saved("d", 400, ms(2026, time.February, 20)),
	}

	monthly := MonthlyBreakdown(records)
	want := []MonthlyAmount{
		{Month: "2026-02", Amount: 600},
		{Month: "2025-12", Amount: 300},
		{Month: "2025-11", Amount: 100},
	}
	if len(monthly) != len(want) {
		t.Fatalf("len = %d, want %d", len(monthly), len(want))
	}
	for i := range want {
		if monthly[i] != want[i] {
			t.Errorf("monthly[%d] = %+v, want %+v", i, monthly[i], want[i])
		}
	}
}

// CreatedAt 缺失的记录归到当前月（文档化的不精确点）
func TestMonthlyBreakdownMissingTimestamp(t *testing.T) {
	monthly := MonthlyBreakdown([]model.CheckEntity{saved("a", 100, 0)})
	if len(monthly) != 1 {
		t.Fatalf("len = %d", len(monthly))
	}
	now := time.Now()
	wantMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).Format("2006-01")
	if monthly[0].Month != wantMonth {
		t.Errorf("month = %s, want %s", monthly[0].Month, wantMonth)
	}
}

// 不重排、只过滤 + 截断，入参的新→旧顺序原样保留
func TestRecentSavedItems(t *testing.T) {
	records := []model.CheckEntity{
		saved("new", 100, ms(2026, time.March, 1)),
		{ID: "undecided", ItemPrice: 500, Decision: model.DecisionUndecided},
		saved("mid", 200, ms(2026, time.January, 1)),
		{ID: "bought", ItemPrice: 300, Decision: model.DecisionBought},
		saved("old", 300, ms(2025, time.December, 1)),
		saved("free", 0, ms(2025, time.November, 1)), // 价格 0 不算节约
	}

	items := RecentSavedItems(records, 2)
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].ID != "new" || items[1].ID != "mid" {
		t.Errorf("order = %s, %s", items[0].ID, items[1].ID)
	}
}

// 清零只动累计值：历史记录和它们的 saved 标记原封不动
func TestResetDecoupledFromHistory(t *testing.T) {
	store := repository.NewMemoryStore()
	historySvc := NewHistoryService(store, store)
	savingsSvc := NewSavingsService(store, store)
	ctx := context.Background()

	seedRecord(t, store, "u1", "r1", 2000)
	if _, _, err := historySvc.Resolve(ctx, "u1", "r1", false); err != nil {
		t.Fatal(err)
	}

	if err := savingsSvc.Reset(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	overview, err := savingsSvc.Overview(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if overview.TotalSaved != 0 {
		t.Errorf("totalSaved = %v, want 0", overview.TotalSaved)
	}

	// 历史还在，saved=true 标记没被抹掉，月别内訳也照常从历史推导
	records, _, err := historySvc.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Decision != model.DecisionSkipped {
		t.Errorf("历史被动过了: %+v", records)
	}
	if len(overview.Monthly) != 1 || overview.Monthly[0].Amount != 2000 {
		t.Errorf("monthly = %+v", overview.Monthly)
	}
	if len(overview.SavedItems) != 1 {
		t.Errorf("savedItems = %+v", overview.SavedItems)
	}
}

func TestOverviewDegradesOnStorageFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewSavingsService(&brokenChecks{CheckRepo: store}, store)

	overview, err := svc.Overview(context.Background(), "u1")
	if err != nil {
		t.Fatalf("只读路径应降级而不是报错: %v", err)
	}
	if overview.TotalSaved != 0 || len(overview.Monthly) != 0 || len(overview.SavedItems) != 0 {
		t.Errorf("降级后应为空视图: %+v", overview)
	}
}
