package scoring

import "fmt"

// 三种判定类型
const (
	TypeBuy  = "buy"
	TypeWait = "wait"
	TypeSkip = "skip"
)

// Verdict 判定结果的展示元数据
type Verdict struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
	Label string `json:"verdict"`
	Desc  string `json:"desc"`
}

// Classify 按固定阈值把百分比映射成三档判定
// 边界值归上档：65 → buy，40 → wait
func Classify(pct int, itemName string) Verdict {
	switch {
	case pct >= 65:
		return Verdict{
			Type:  TypeBuy,
			Emoji: "🛒",
			Label: "買っちゃおう！",
			Desc:  fmt.Sprintf("「%s」は6つの視点からも本物の価値があると出ました。後悔しないでしょう！", itemName),
		}
	case pct >= 40:
		return Verdict{
			Type:  TypeWait,
			Emoji: "⏳",
			Label: "もう少し待って",
			Desc:  fmt.Sprintf("「%s」への気持ちはポジティブな面もありますが、引っかかる点もあります。1週間後に再考を。", itemName),
		}
	default:
		return Verdict{
			Type:  TypeSkip,
			Emoji: "🌊",
			Label: "今回は見送ろう",
			Desc:  fmt.Sprintf("「%s」への欲求は一時的かもしれません。節約した分を本当に大切なものへ。", itemName),
		}
	}
}
