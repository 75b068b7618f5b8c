package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient 走 OpenAI 兼容端点的实现
// BaseURL 可以指到任何兼容服务（官方 / 代理 / 自建）
type OpenAIClient struct {
	modelName string
	client    *openai.Client
}

func NewOpenAIClient(apiKey, baseURL, modelName string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		modelName: modelName,
		client:    openai.NewClientWithConfig(config),
	}
}

func (o *OpenAIClient) GenerateFeedback(ctx context.Context, in FeedbackInput) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(in)},
		},
		MaxTokens:   100,
		Temperature: 0.75, // 反馈要有点人味，温度别压太低
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: 响应里没有任何 choice")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
