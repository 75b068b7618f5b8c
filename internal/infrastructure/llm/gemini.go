package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient Gemini 实现，接口行为和 OpenAIClient 完全一致
type GeminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 genai client 失败: %w", err)
	}

	return &GeminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *GeminiClient) GenerateFeedback(ctx context.Context, in FeedbackInput) (string, error) {
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.modelName,
		genai.Text(BuildPrompt(in)),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini 生成失败: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: 响应里没有文本内容")
	}
	return text, nil
}
