package scoring

import "math"

// 六问清单的理论极值，和 model.Questions 的选项分数联动
// 归一化公式写死这两个常数，总分超界只会被夹断，不会报错
const (
	ScoreMin = -17
	ScoreMax = 18

	// QuestionCount 固定六问
	QuestionCount = 6
)

// Compute 把按提问顺序排列的各题得分归一化成 0-100 的整数百分比
func Compute(scores []int) int {
	total := 0
	for _, s := range scores {
		total += s
	}

	pct := float64(total-ScoreMin) / float64(ScoreMax-ScoreMin)
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	return int(math.Round(pct * 100))
}
