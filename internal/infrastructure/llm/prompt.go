package llm

import (
	"fmt"

	"github.com/octopus12176/tokimeki-checker/internal/model"
)

// ScoreLabel 把选项分数转成提示词里的人类可读标签
// 阈值和回退文案的分段保持一致：±2 为界
func ScoreLabel(score int) string {
	if score >= 2 {
		return "ポジティブな回答"
	}
	if score <= -2 {
		return "ネガティブな回答"
	}
	return "中立的な回答"
}

// BuildPrompt 组装发给模型的完整提示词
// 两个 Provider 共用，保证换模型不换人设
func BuildPrompt(in FeedbackInput) string {
	priceText := ""
	if in.ItemPrice > 0 {
		priceText = fmt.Sprintf("（価格：¥%.0f）", in.ItemPrice)
	}

	return fmt.Sprintf(`あなたは批評眼のある節約アドバイザーです。ユーザーが「%s%s」の購入を検討しています。

質問テーマ：%s
質問（%d/6）：%s
ユーザーの回答：「%s」（%s）

%s

ルール：
・20〜40文字程度の短い日本語フィードバックを1文だけ返す
・文頭に絵文字を1つだけ使う
・ポジティブな回答 → 背中を押すコメント
・ネガティブな回答 → 優しく、でも鋭く気づきを促すコメント
・中立的な回答 → バランスの取れた問いかけ
・口語で自然に終わること（「ね」「よ」「！」など）
・説教臭くならないこと
フィードバック文のみ返してください。`,
		in.ItemName, priceText,
		in.QuestionTheme,
		in.QuestionIndex+1, in.QuestionText,
		in.AnswerText, ScoreLabel(in.AnswerScore),
		model.ThemeInstruction(in.QuestionTheme),
	)
}
