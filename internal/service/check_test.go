package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/octopus12176/tokimeki-checker/internal/infrastructure/llm"
	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
	"github.com/octopus12176/tokimeki-checker/internal/scoring"
)

// stubProvider 可控的反馈生成器替身
type stubProvider struct {
	text  string
	err   error
	calls int
}

func (s *stubProvider) GenerateFeedback(_ context.Context, _ llm.FeedbackInput) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func answer(theme, q, a string, score int) model.Answer {
	return model.Answer{Theme: theme, ThemeLabel: theme, Question: q, AnswerText: a, Score: score}
}

func TestSubmitAnswerFeedback(t *testing.T) {
	provider := &stubProvider{text: "💡 いい視点ですね！"}
	svc := NewCheckService(provider, repository.NewMemoryStore())

	sid := svc.StartCheck("u1", "ヘッドホン", 8000)
	fb, done, err := svc.SubmitAnswer(context.Background(), "u1", sid, answer("tokimeki", "ときめく？", "めちゃくちゃときめく！", 3))
	if err != nil {
		t.Fatal(err)
	}
	if fb != "💡 いい視点ですね！" {
		t.Errorf("feedback = %q", fb)
	}
	if done {
		t.Error("1問目で done になってはいけない")
	}
	if provider.calls != 1 {
		t.Errorf("calls = %d", provider.calls)
	}
}

// 反馈生成器挂掉时按分数正负给固定文案，流程绝不中断
func TestSubmitAnswerFallback(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{3, "✅ 良いサインです！"},
		{2, "✅ 良いサインです！"},
		{1, "📊 バランスが大切ですね"},
		{0, "📊 バランスが大切ですね"},
		{-1, "📊 バランスが大切ですね"},
		{-2, "⚠️ 少し立ち止まってみましょう"},
		{-3, "⚠️ 少し立ち止まってみましょう"},
	}
	for _, c := range cases {
		provider := &stubProvider{err: errors.New("api down")}
		svc := NewCheckService(provider, repository.NewMemoryStore())
		sid := svc.StartCheck("u1", "x", 0)

		fb, _, err := svc.SubmitAnswer(context.Background(), "u1", sid, answer("mise", "q", "a", c.score))
		if err != nil {
			t.Fatalf("score=%d: 兜底路径不应报错: %v", c.score, err)
		}
		if fb != c.want {
			t.Errorf("score=%d: feedback = %q, want %q", c.score, fb, c.want)
		}
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	svc := NewCheckService(&stubProvider{text: "ok"}, repository.NewMemoryStore())
	sid := svc.StartCheck("u1", "x", 0)

	if _, _, err := svc.SubmitAnswer(context.Background(), "u1", sid, answer("t", "", "a", 1)); !errors.Is(err, ErrValidation) {
		t.Errorf("质问文缺失 err = %v, want ErrValidation", err)
	}
	if _, _, err := svc.SubmitAnswer(context.Background(), "u1", sid, answer("t", "q", " ", 1)); !errors.Is(err, ErrValidation) {
		t.Errorf("回答缺失 err = %v, want ErrValidation", err)
	}
	// 别人的会话等于不存在
	if _, _, err := svc.SubmitAnswer(context.Background(), "u2", sid, answer("t", "q", "a", 1)); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("跨用户 err = %v, want ErrSessionNotFound", err)
	}
	if _, _, err := svc.SubmitAnswer(context.Background(), "u1", "no-such-session", answer("t", "q", "a", 1)); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("未知会话 err = %v, want ErrSessionNotFound", err)
	}
}

// 通しの動作確認：ヘッドホン 8000 円、回答 [3,3,2,-1,1,2] → 77 点 → buy
func TestFinishCheckEndToEnd(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCheckService(&stubProvider{text: "💬 feedback"}, store)
	ctx := context.Background()

	sid := svc.StartCheck("u1", "ヘッドホン", 8000)
	scores := []int{3, 3, 2, -1, 1, 2}
	var done bool
	for i, s := range scores {
		var err error
		_, done, err = svc.SubmitAnswer(ctx, "u1", sid, answer("tokimeki", "q", "a", s))
		if err != nil {
			t.Fatalf("answer #%d: %v", i, err)
		}
	}
	if !done {
		t.Fatal("6問目で done になるはず")
	}

	result, err := svc.FinishCheck(ctx, "u1", sid)
	if err != nil {
		t.Fatal(err)
	}
	rec := result.Record
	if rec.Score != 77 {
		t.Errorf("score = %d, want 77", rec.Score)
	}
	if rec.Type != scoring.TypeBuy {
		t.Errorf("type = %s, want buy", rec.Type)
	}
	if rec.Decision != model.DecisionUndecided {
		t.Errorf("新記録は未決定のはず, got %s", rec.Decision)
	}
	if rec.ItemName != "ヘッドホン" || rec.ItemPrice != 8000 {
		t.Errorf("item = %s/%v", rec.ItemName, rec.ItemPrice)
	}
	if rec.ID == "" || rec.CreatedAt == 0 || rec.Date == "" {
		t.Errorf("id/createdAt/date 缺失: %+v", rec)
	}

	// 账本里能查到，状态一致
	stored, err := store.GetByID(ctx, "u1", rec.ID)
	if err != nil {
		t.Fatalf("落库后查不到: %v", err)
	}
	if stored.Decision != model.DecisionUndecided {
		t.Errorf("stored decision = %s", stored.Decision)
	}

	// 会话已销毁，重复 finish 不会产生第二条记录
	if _, err := svc.FinishCheck(ctx, "u1", sid); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("二次 finish err = %v, want ErrSessionNotFound", err)
	}
}

func TestFinishCheckIncomplete(t *testing.T) {
	svc := NewCheckService(&stubProvider{text: "ok"}, repository.NewMemoryStore())
	ctx := context.Background()

	sid := svc.StartCheck("u1", "x", 0)
	for i := 0; i < 4; i++ {
		if _, _, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 1)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.FinishCheck(ctx, "u1", sid); !errors.Is(err, ErrCheckIncomplete) {
		t.Errorf("4問で finish err = %v, want ErrCheckIncomplete", err)
	}
}

func TestSubmitAnswerOverflow(t *testing.T) {
	svc := NewCheckService(&stubProvider{text: "ok"}, repository.NewMemoryStore())
	ctx := context.Background()

	sid := svc.StartCheck("u1", "x", 0)
	for i := 0; i < scoring.QuestionCount; i++ {
		if _, _, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 0)); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 0)); !errors.Is(err, ErrValidation) {
		t.Errorf("7問目 err = %v, want ErrValidation", err)
	}
}

// gatedProvider 从第 gateFrom 次调用起挡住反馈生成，
// 用来把多个提交同时卡在锁外的 LLM 调用里
type gatedProvider struct {
	mu       sync.Mutex
	calls    int
	gateFrom int
	entered  chan struct{}
	release  chan struct{}
}

func (g *gatedProvider) GenerateFeedback(_ context.Context, _ llm.FeedbackInput) (string, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()
	if n >= g.gateFrom {
		g.entered <- struct{}{}
		<-g.release
	}
	return "ok", nil
}

// 两个"第6问"同时在等 LLM：只能有一个写进会话，另一个被拒，
// 最终记录还是 6 问
func TestSubmitAnswerConcurrentLastQuestion(t *testing.T) {
	provider := &gatedProvider{gateFrom: 6, entered: make(chan struct{}, 2), release: make(chan struct{})}
	store := repository.NewMemoryStore()
	svc := NewCheckService(provider, store)
	ctx := context.Background()

	sid := svc.StartCheck("u1", "x", 0)
	for i := 0; i < scoring.QuestionCount-1; i++ {
		if _, _, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 1)); err != nil {
			t.Fatal(err)
		}
	}

	type outcome struct {
		done bool
		err  error
	}
	outcomes := make(chan outcome, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, done, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 1))
			outcomes <- outcome{done: done, err: err}
		}()
	}
	// 两个提交都已越过人数检查、卡在反馈生成里，再一起放行
	<-provider.entered
	<-provider.entered
	close(provider.release)
	wg.Wait()
	close(outcomes)

	var accepted, rejected int
	for o := range outcomes {
		switch {
		case o.err == nil:
			accepted++
			if !o.done {
				t.Error("写入成功的那个应该 done")
			}
		case errors.Is(o.err, ErrValidation):
			rejected++
		default:
			t.Errorf("意外的错误: %v", o.err)
		}
	}
	if accepted != 1 || rejected != 1 {
		t.Fatalf("accepted=%d rejected=%d, want 1/1", accepted, rejected)
	}

	result, err := svc.FinishCheck(ctx, "u1", sid)
	if err != nil {
		t.Fatal(err)
	}
	var timeline []model.TimelineItem
	if err := json.Unmarshal(result.Record.Timeline, &timeline); err != nil {
		t.Fatal(err)
	}
	if len(timeline) != scoring.QuestionCount {
		t.Errorf("timeline 长度 = %d, want %d", len(timeline), scoring.QuestionCount)
	}
}

// gatedRepo 把 Append 卡住，制造两个 finish 并发的窗口
type gatedRepo struct {
	repository.CheckRepo
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRepo) Append(ctx context.Context, rec *model.CheckEntity) error {
	g.entered <- struct{}{}
	<-g.release
	return g.CheckRepo.Append(ctx, rec)
}

// 第一个 finish 还卡在落库时，第二个 finish 必须直接查无此会话，
// 账本里只能有一条记录
func TestFinishCheckConcurrent(t *testing.T) {
	store := repository.NewMemoryStore()
	gated := &gatedRepo{CheckRepo: store, entered: make(chan struct{}, 1), release: make(chan struct{})}
	svc := NewCheckService(&stubProvider{text: "ok"}, gated)
	ctx := context.Background()

	sid := svc.StartCheck("u1", "x", 0)
	for i := 0; i < scoring.QuestionCount; i++ {
		if _, _, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 1)); err != nil {
			t.Fatal(err)
		}
	}

	first := make(chan error, 1)
	go func() {
		_, err := svc.FinishCheck(ctx, "u1", sid)
		first <- err
	}()
	<-gated.entered // 第一个已进入落库，会话此刻应该已被摘下

	if _, err := svc.FinishCheck(ctx, "u1", sid); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("并发 finish err = %v, want ErrSessionNotFound", err)
	}

	close(gated.release)
	if err := <-first; err != nil {
		t.Fatalf("第一个 finish 不应失败: %v", err)
	}
	records, err := store.List(ctx, "u1", repository.HistoryLimit)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("记录数 = %d, want 1", len(records))
	}
}

// flakyRepo 前 failures 次 Append 直接报错
type flakyRepo struct {
	repository.CheckRepo
	failures int
}

func (f *flakyRepo) Append(ctx context.Context, rec *model.CheckEntity) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("db down")
	}
	return f.CheckRepo.Append(ctx, rec)
}

// 落库失败时会话要放回去，重试 finish 能成功且只留一条记录
func TestFinishCheckRetryAfterSaveFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCheckService(&stubProvider{text: "ok"}, &flakyRepo{CheckRepo: store, failures: 1})
	ctx := context.Background()

	sid := svc.StartCheck("u1", "x", 0)
	for i := 0; i < scoring.QuestionCount; i++ {
		if _, _, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 1)); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := svc.FinishCheck(ctx, "u1", sid); err == nil {
		t.Fatal("首次 finish 应把落库错误抛给调用方")
	}
	if _, err := svc.FinishCheck(ctx, "u1", sid); err != nil {
		t.Fatalf("重试 finish 应成功: %v", err)
	}
	records, err := store.List(ctx, "u1", repository.HistoryLimit)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("记录数 = %d, want 1", len(records))
	}
}

func TestStartCheckDefaults(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCheckService(&stubProvider{text: "ok"}, store)
	ctx := context.Background()

	// 商品名没填 → 既定名；价格负数 → 0
	sid := svc.StartCheck("u1", "  ", -100)
	for i := 0; i < scoring.QuestionCount; i++ {
		if _, _, err := svc.SubmitAnswer(ctx, "u1", sid, answer("t", "q", "a", 0)); err != nil {
			t.Fatal(err)
		}
	}
	result, err := svc.FinishCheck(ctx, "u1", sid)
	if err != nil {
		t.Fatal(err)
	}
	if result.Record.ItemName != "この商品" {
		t.Errorf("itemName = %q", result.Record.ItemName)
	}
	if result.Record.ItemPrice != 0 {
		t.Errorf("itemPrice = %v", result.Record.ItemPrice)
	}
}
