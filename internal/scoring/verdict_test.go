package scoring

import (
	"strings"
	"testing"
)

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		pct  int
		want string
	}{
		{100, TypeBuy},
		{77, TypeBuy},
		{65, TypeBuy}, // 边界归上档
		{64, TypeWait},
		{40, TypeWait}, // 边界归上档
		{39, TypeSkip},
		{0, TypeSkip},
	}
	for _, c := range cases {
		if got := Classify(c.pct, "テスト商品").Type; got != c.want {
			t.Errorf("Classify(%d).Type = %s, want %s", c.pct, got, c.want)
		}
	}
}

// 0-100 的每个值都必须且只能落在三档之一
func TestClassifyPartition(t *testing.T) {
	for pct := 0; pct <= 100; pct++ {
		v := Classify(pct, "x")
		switch v.Type {
		case TypeBuy, TypeWait, TypeSkip:
		default:
			t.Fatalf("Classify(%d) 返回未知类型 %q", pct, v.Type)
		}
		if v.Label == "" || v.Emoji == "" || v.Desc == "" {
			t.Fatalf("Classify(%d) 缺展示字段: %+v", pct, v)
		}
	}
}

func TestClassifyDescContainsItemName(t *testing.T) {
	for _, pct := range []int{80, 50, 10} {
		v := Classify(pct, "ヘッドホン")
		if !strings.Contains(v.Desc, "ヘッドホン") {
			t.Errorf("Classify(%d).Desc 没有插入商品名: %s", pct, v.Desc)
		}
	}
}
