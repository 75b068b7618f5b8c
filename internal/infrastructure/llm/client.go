package llm

import "context"

// FeedbackInput 一次反馈生成需要的全部上下文
type FeedbackInput struct {
	ItemName      string
	ItemPrice     float64
	QuestionText  string
	AnswerText    string
	AnswerScore   int
	QuestionIndex int // 0 起
	QuestionTheme string
}

// Provider 定义了反馈生成器的通用行为
// OpenAI 兼容端点和 Gemini 各有一个实现，靠配置二选一
type Provider interface {
	// GenerateFeedback 针对单个回答返回一句短反馈
	GenerateFeedback(ctx context.Context, in FeedbackInput) (string, error)
}
