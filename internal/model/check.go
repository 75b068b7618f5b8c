package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Decision 是一条チェック记录的三态决定
// 空值不合法，落库时一定是三者之一
type Decision string

const (
	// DecisionUndecided 结果刚出来，用户还没回答"买了吗"
	DecisionUndecided Decision = "undecided"
	// DecisionBought 用户最终买了，不计入节约额
	DecisionBought Decision = "bought"
	// DecisionSkipped 用户忍住没买，价格计入节约额
	DecisionSkipped Decision = "skipped"
)

// Decided 是否已经做过购买决定（决定只能做一次）
func (d Decision) Decided() bool {
	return d == DecisionBought || d == DecisionSkipped
}

// SavedFlag 转回前端约定的三态 saved 字段：
// nil = 未决定 / true = 见送り（节约）/ false = 购入
func (d Decision) SavedFlag() *bool {
	switch d {
	case DecisionBought:
		v := false
		return &v
	case DecisionSkipped:
		v := true
		return &v
	default:
		return nil
	}
}

// CheckEntity 映射 checks 表，一行就是一次完整的购买检查结果
type CheckEntity struct {
	// Seq 只表达插入顺序，新→旧 = Seq 倒序
	// 历史列表的排序以它为准，不看时间戳（时间戳乱序也不重排）
	Seq    uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	ID     string `gorm:"type:varchar(36);uniqueIndex" json:"id"`
	UserID string `gorm:"type:varchar(64);index" json:"-"`

	ItemName  string  `gorm:"type:varchar(255)" json:"itemName"`
	ItemPrice float64 `gorm:"type:decimal(12,2)" json:"itemPrice"` // 0 表示没填价格

	Type    string `gorm:"type:varchar(8)" json:"type"` // buy / wait / skip
	Verdict string `gorm:"type:varchar(64)" json:"verdict"`
	Score   int    `json:"score"` // 0-100

	Decision Decision `gorm:"type:varchar(16);index" json:"-"`

	// Date 是展示用的日期（"1月2日" 这种），月度统计不用它
	Date string `gorm:"type:varchar(32)" json:"date"`
	// CreatedAt 毫秒时间戳，月度统计的唯一依据
	CreatedAt int64 `gorm:"autoCreateTime:milli" json:"createdAt"`

	// Timeline 整个问答时间线的快照，历史页重新渲染用
	Timeline datatypes.JSON `json:"timeline,omitempty"`
}

// TableName 强制指定表名
func (CheckEntity) TableName() string {
	return "checks"
}

// MarshalJSON 在标准字段之外补上前端约定的 saved 三态
func (c CheckEntity) MarshalJSON() ([]byte, error) {
	type alias CheckEntity
	return json.Marshal(struct {
		alias
		Saved *bool `json:"saved"`
	}{alias(c), c.Decision.SavedFlag()})
}

// TimelineItem 时间线里的一格：回答 + 当时的 AI 反馈
type TimelineItem struct {
	Answer
	Feedback string `json:"feedback"`
}

// EncodeTimeline 把问答时间线序列化成 JSON 列的值
func EncodeTimeline(items []TimelineItem) (datatypes.JSON, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
