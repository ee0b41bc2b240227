package cnnum

import (
	"strconv"
	"testing"
)

func TestToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"0", 0},
		{"123", 123},
		{"１２３", 123},
		{"一百二十三", 123},
		{"十", 10},
		{"十一", 11},
		{"拾贰", 12},
		{"二十", 20},
		{"两百", 200},
		{"三千", 3000},
		{"五千元", 5000},
		{"三万五千", 35000},
		{"壹万元整", 10000},
		{"1.5万", 15000},
		{"2万", 20000},
		{"3,000元", 3000},
		{"二百六十四", 264},
		{"一百三十三", 133},
	}

	for _, c := range cases {
		if got := ToInt(c.in); got != c.want {
			t.Errorf("ToInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

// 已经是阿拉伯数字的输出再喂回去必须得到同一个值
func TestToIntIdempotent(t *testing.T) {
	inputs := []string{"一百二十三", "十一", "1.5万", "888", "五千元"}
	for _, in := range inputs {
		first := ToInt(in)
		second := ToInt(strconv.Itoa(first))
		if first != second {
			t.Errorf("ToInt not idempotent for %q: first=%d second=%d", in, first, second)
		}
	}
}
