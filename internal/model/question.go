package model

// Answer 一次チェック中的单个回答
// 只在问答会话期间存在，不单独落库（最终以 Timeline 快照形式跟随记录）
type Answer struct {
	Theme      string `json:"theme"`
	ThemeLabel string `json:"themeLabel"`
	Question   string `json:"q"`
	AnswerText string `json:"a"`
	Score      int    `json:"score"`
}

// QuestionOption 一个选项，Score 是它对总分的贡献
type QuestionOption struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Sub   string `json:"sub"`
	Score int    `json:"score"`
}

// Question 六问清单里的一问
type Question struct {
	Theme      string           `json:"theme"`
	ThemeLabel string           `json:"themeLabel"`
	Text       string           `json:"text"`
	Sub        string           `json:"sub"`
	Options    []QuestionOption `json:"options"`
}

// Questions 固定的六问清单，顺序就是提问顺序
// 所有选项分数加总的理论极值是 [-17, +18]，
// 这两个常数被打分归一化直接依赖，改选项分数前先想清楚
var Questions = []Question{
	{
		Theme:      "tokimeki",
		ThemeLabel: "ときめき",
		Text:       "それを手にした自分を想像して、心がときめきますか？",
		Sub:        "直感で答えてOKです",
		Options: []QuestionOption{
			{Icon: "💖", Label: "めちゃくちゃときめく！", Sub: "想像するだけで嬉しい", Score: 3},
			{Icon: "🙂", Label: "まあまあときめく", Sub: "悪くない気分", Score: 1},
			{Icon: "😐", Label: "正直そこまで…", Sub: "言われてみれば微妙", Score: -1},
			{Icon: "😶", Label: "ときめきは特にない", Sub: "勢いだけかも", Score: -3},
		},
	},
	{
		Theme:      "mise",
		ThemeLabel: "見栄チェック",
		Text:       "誰にも見せられないとしても、それを買いたいですか？",
		Sub:        "SNSも友達も関係なし、の前提で",
		Options: []QuestionOption{
			{Icon: "💪", Label: "誰に見せなくても欲しい", Sub: "自分のための買い物", Score: 3},
			{Icon: "🤔", Label: "たぶん欲しい", Sub: "少し揺らぐけど", Score: 1},
			{Icon: "😅", Label: "ちょっと熱が下がるかも", Sub: "人の目が入ってたかも", Score: -1},
			{Icon: "🫥", Label: "見せられないなら要らない", Sub: "それは見栄では…？", Score: -3},
		},
	},
	{
		Theme:      "hitsuyou",
		ThemeLabel: "必要性",
		Text:       "それがないことで、今の生活に具体的な困りごとはありますか？",
		Sub:        "「あったら便利」は困りごとに入りません",
		Options: []QuestionOption{
			{Icon: "🔧", Label: "明確に困っている", Sub: "毎日のように不便を感じる", Score: 3},
			{Icon: "📋", Label: "ときどき困る", Sub: "月に数回レベル", Score: 1},
			{Icon: "🌤", Label: "なくても平気", Sub: "今まで普通に暮らせてた", Score: -1},
			{Icon: "🎈", Label: "困りごとは思いつかない", Sub: "欲しいから欲しいだけ", Score: -3},
		},
	},
	{
		Theme:      "tsukauka",
		ThemeLabel: "使い続ける？",
		Text:       "3ヶ月後も使っている自分を、具体的に想像できますか？",
		Sub:        "いつ・どこで・どう使うかまで",
		Options: []QuestionOption{
			{Icon: "📅", Label: "はっきり想像できる", Sub: "使う場面が具体的にある", Score: 3},
			{Icon: "🗓", Label: "たぶん使ってる", Sub: "ぼんやりとは見える", Score: 1},
			{Icon: "🌫", Label: "あまり自信がない", Sub: "飽きてるかもしれない", Score: -1},
			{Icon: "🕸", Label: "押し入れ行きの予感", Sub: "過去にも似たことが…", Score: -3},
		},
	},
	{
		Theme:      "daigae",
		ThemeLabel: "代替手段",
		Text:       "借りる・中古・サブスク・手持ちの物で代わりになりませんか？",
		Sub:        "図書館・レンタル・フリマも含めて",
		Options: []QuestionOption{
			{Icon: "🚫", Label: "代わりは効かない", Sub: "新品のこれしかない", Score: 3},
			{Icon: "🔍", Label: "探せばあるかもだけど", Sub: "手間を考えると買いたい", Score: 1},
			{Icon: "♻️", Label: "中古やレンタルでも良さそう", Sub: "実は選択肢がある", Score: -1},
			{Icon: "📚", Label: "正直、代替で十分", Sub: "持ってる物でもいける", Score: -3},
		},
	},
	{
		Theme:      "shihonshugi",
		ThemeLabel: "欲しさの出どころ",
		Text:       "その「欲しい」は、広告やセールに火をつけられたものでは？",
		Sub:        "いつから欲しかったか思い出してみて",
		Options: []QuestionOption{
			{Icon: "🧭", Label: "前から自分で欲しかった", Sub: "広告は関係ない", Score: 3},
			{Icon: "🛰", Label: "きっかけは広告だけど納得してる", Sub: "自分で調べ直した", Score: 1},
			{Icon: "📢", Label: "広告やレビューで欲しくなった", Sub: "最近急に欲しくなった", Score: 0},
			{Icon: "⏰", Label: "セール終了に焦らされてる", Sub: "今日までって書いてあった", Score: -2},
		},
	},
}

// themeInstructions 每个主题对应的反馈生成指示
// 跟 Questions 放在一起，改问题时能对照着改
var themeInstructions = map[string]string{
	"tokimeki":    "ときめきや感情的な価値について共感を込めてコメントしてください。",
	"mise":        "見栄や承認欲求について、批判せず優しく本音に気づかせるコメントをしてください。",
	"hitsuyou":    "必要性や購入目的の明確さについてコメントしてください。",
	"tsukauka":    "実際に使い続けるかどうかの現実的な視点でコメントしてください。",
	"daigae":      "代替手段（図書館・中古・サブスクなど）の可能性を踏まえてコメントしてください。",
	"shihonshugi": "消費文化・広告・資本主義への批判的視点を持ちながら、押しつけがましくなくコメントしてください。",
}

// ThemeInstruction 返回主题的提示词指示，未知主题返回空串
func ThemeInstruction(theme string) string {
	return themeInstructions[theme]
}
