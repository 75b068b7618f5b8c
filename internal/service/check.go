package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/octopus12176/tokimeki-checker/internal/infrastructure/llm"
	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
	"github.com/octopus12176/tokimeki-checker/internal/scoring"
)

var (
	// ErrSessionNotFound 会话不存在 / 不是你的 / 已过期
	ErrSessionNotFound = errors.New("check session not found")
	// ErrValidation 入参缺必填字段，任何状态都没动过
	ErrValidation = errors.New("validation failed")
	// ErrCheckIncomplete 六问还没答完就想看结果
	ErrCheckIncomplete = errors.New("check not complete")
)

// sessionTTL 问答会话的有效期，答一半离开超过这个时长就得重来
const sessionTTL = 30 * time.Minute

// checkSession 一次问答的全部中间状态
// 原来的实现把这个放在一个进程级单例里，这里收进 service 自己的 map，
// 按会话 id 隔离，跟请求方的 goroutine 没有任何共享可变量
type checkSession struct {
	userID    string
	itemName  string
	itemPrice float64
	answers   []model.Answer
	feedbacks []string
	expiresAt time.Time
}

// CheckService 驱动六问流程：开始 → 逐题回答（带 AI 反馈）→ 出结果落库
type CheckService struct {
	llmClient llm.Provider
	checkRepo repository.CheckRepo

	mu       sync.Mutex
	sessions map[string]*checkSession
}

// NewCheckService 构造函数 (依赖注入)
func NewCheckService(llmClient llm.Provider, checkRepo repository.CheckRepo) *CheckService {
	return &CheckService{
		llmClient: llmClient,
		checkRepo: checkRepo,
		sessions:  make(map[string]*checkSession),
	}
}

// StartCheck 开一个新的问答会话，返回会话 id
func (s *CheckService) StartCheck(userID, itemName string, itemPrice float64) string {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		itemName = "この商品"
	}
	if itemPrice < 0 {
		itemPrice = 0
	}

	sessionID := uuid.NewString()
	s.mu.Lock()
	s.sweepLocked()
	s.sessions[sessionID] = &checkSession{
		userID:    userID,
		itemName:  itemName,
		itemPrice: itemPrice,
		expiresAt: time.Now().Add(sessionTTL),
	}
	s.mu.Unlock()

	slog.Info("チェック開始", "uid", userID, "session", sessionID, "item", itemName)
	return sessionID
}

// SubmitAnswer 记录一个回答并生成反馈
// 反馈生成失败不中断流程：按分数正负给固定文案兜底
func (s *CheckService) SubmitAnswer(ctx context.Context, userID, sessionID string, ans model.Answer) (string, bool, error) {
	if strings.TrimSpace(ans.Question) == "" || strings.TrimSpace(ans.AnswerText) == "" {
		return "", false, fmt.Errorf("%w: 质问文と回答は必須", ErrValidation)
	}

	s.mu.Lock()
	sess, ok := s.lookupLocked(userID, sessionID)
	if !ok {
		s.mu.Unlock()
		return "", false, ErrSessionNotFound
	}
	if len(sess.answers) >= scoring.QuestionCount {
		s.mu.Unlock()
		return "", false, fmt.Errorf("%w: 回答は%d問まで", ErrValidation, scoring.QuestionCount)
	}
	index := len(sess.answers)
	itemName, itemPrice := sess.itemName, sess.itemPrice
	s.mu.Unlock()

	// LLM 调用放在锁外，别让一个慢请求卡住所有会话
	feedback, err := s.llmClient.GenerateFeedback(ctx, llm.FeedbackInput{
		ItemName:      itemName,
		ItemPrice:     itemPrice,
		QuestionText:  ans.Question,
		AnswerText:    ans.AnswerText,
		AnswerScore:   ans.Score,
		QuestionIndex: index,
		QuestionTheme: ans.Theme,
	})
	if err != nil {
		slog.Warn("AI 反馈生成失败，使用兜底文案", "uid", userID, "err", err)
		feedback = fallbackFeedback(ans.Score)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok = s.lookupLocked(userID, sessionID)
	if !ok {
		return "", false, ErrSessionNotFound
	}
	// 锁外等 LLM 的间隙里，并发请求可能已经把最后一问答上了
	// 必须重查一次人数，否则两个"第6问"都能挤进来变成 7 问
	if len(sess.answers) >= scoring.QuestionCount {
		return "", false, fmt.Errorf("%w: 回答は%d問まで", ErrValidation, scoring.QuestionCount)
	}
	sess.answers = append(sess.answers, ans)
	sess.feedbacks = append(sess.feedbacks, feedback)
	return feedback, len(sess.answers) == scoring.QuestionCount, nil
}

// CheckResult finishCheck 返回给前端的完整结果 (VO)
type CheckResult struct {
	Record  *model.CheckEntity `json:"record"`
	Emoji   string             `json:"emoji"`
	Verdict string             `json:"verdict"`
	Desc    string             `json:"desc"`
}

// FinishCheck 六问答完后出结果：打分 → 判定 → 以"未决定"状态落库
// 落库失败必须往上抛，静默丢一次检查结果是不可接受的
func (s *CheckService) FinishCheck(ctx context.Context, userID, sessionID string) (*CheckResult, error) {
	s.mu.Lock()
	sess, ok := s.lookupLocked(userID, sessionID)
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if len(sess.answers) < scoring.QuestionCount {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d/%d問", ErrCheckIncomplete, len(sess.answers), scoring.QuestionCount)
	}
	// 先把会话从 map 里摘下来再放锁：并发的第二个 finish 只会拿到
	// ErrSessionNotFound，不可能落第二条记录；落库失败再放回去重试
	delete(s.sessions, sessionID)
	answers := append([]model.Answer(nil), sess.answers...)
	feedbacks := append([]string(nil), sess.feedbacks...)
	itemName, itemPrice := sess.itemName, sess.itemPrice
	s.mu.Unlock()

	scores := make([]int, len(answers))
	timeline := make([]model.TimelineItem, len(answers))
	for i, a := range answers {
		scores[i] = a.Score
		timeline[i] = model.TimelineItem{Answer: a, Feedback: feedbacks[i]}
	}
	pct := scoring.Compute(scores)
	verdict := scoring.Classify(pct, itemName)

	timelineJSON, err := model.EncodeTimeline(timeline)
	if err != nil {
		s.mu.Lock()
		s.sessions[sessionID] = sess
		s.mu.Unlock()
		return nil, err
	}

	now := time.Now()
	record := &model.CheckEntity{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemName:  itemName,
		ItemPrice: itemPrice,
		Type:      verdict.Type,
		Verdict:   verdict.Label,
		Score:     pct,
		Decision:  model.DecisionUndecided,
		Date:      fmt.Sprintf("%d月%d日", int(now.Month()), now.Day()),
		CreatedAt: now.UnixMilli(),
		Timeline:  timelineJSON,
	}
	if err := s.checkRepo.Append(ctx, record); err != nil {
		// 会话放回去，前端可以重试 finish
		s.mu.Lock()
		s.sessions[sessionID] = sess
		s.mu.Unlock()
		slog.Error("チェック結果の保存に失敗", "uid", userID, "err", err)
		return nil, err
	}

	slog.Info("チェック完了", "uid", userID, "item", itemName, "score", pct, "type", verdict.Type)
	return &CheckResult{
		Record:  record,
		Emoji:   verdict.Emoji,
		Verdict: verdict.Label,
		Desc:    verdict.Desc,
	}, nil
}

// lookupLocked 取会话并顺手校验归属和过期，调用方必须持锁
func (s *CheckService) lookupLocked(userID, sessionID string) (*checkSession, bool) {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.userID != userID {
		return nil, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return nil, false
	}
	return sess, true
}

// sweepLocked 顺带清掉过期会话，不单开后台协程
func (s *CheckService) sweepLocked() {
	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// fallbackFeedback 反馈生成器不可用时的本地兜底，按分数正负分三档
func fallbackFeedback(score int) string {
	if score >= 2 {
		return "✅ 良いサインです！"
	}
	if score <= -2 {
		return "⚠️ 少し立ち止まってみましょう"
	}
	return "📊 バランスが大切ですね"
}
