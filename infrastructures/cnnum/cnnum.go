// Package cnnum converts mixed Chinese/Arabic numeral strings to integers.
// It is tuned for the two shapes that dominate criminal judgments: statute
// article numbers (一百三十三, 二百六十四) and money amounts (五千元, 1.5万, 3000元).
package cnnum

import (
	"regexp"
	"strconv"
	"strings"
)

// digitValues 中文数字字符取值，含大写金额变体
var digitValues = map[rune]int{
	'零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9, '十': 10,
	'壹': 1, '贰': 2, '叁': 3, '肆': 4, '伍': 5,
	'陆': 6, '柒': 7, '捌': 8, '玖': 9, '拾': 10,
	'百': 100, '佰': 100, '千': 1000, '仟': 1000, '万': 10000, '两': 2,
}

// unitValues 位值单位字符
var unitValues = map[rune]int{
	'万': 10000,
	'仟': 1000, '千': 1000,
	'佰': 100, '百': 100,
	'拾': 10, '十': 10,
}

// fullWidthReplacer 全角数字和小数点归一化
var fullWidthReplacer = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
	"．", ".",
)

var decimalWanPattern = regexp.MustCompile(`^[\d.]+万$`)

// ToInt 将中文/阿拉伯混合数字串转为整数。无法解析时返回0，从不报错。
// 对已经是阿拉伯数字的输入幂等：ToInt(strconv.Itoa(ToInt(x))) == ToInt(x)。
func ToInt(text string) int {
	if text == "" {
		return 0
	}

	// 去除金额修饰字符并归一化全角
	s := strings.TrimSpace(text)
	s = strings.NewReplacer("元", "", "整", "", ",", "", "，", "").Replace(s)
	s = fullWidthReplacer.Replace(s)
	if s == "" {
		return 0
	}

	if isASCIIDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	}

	// "1.5万" 这类阿拉伯数字+万的简写
	if decimalWanPattern.MatchString(s) {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "万"), 64)
		if err != nil {
			return 0
		}
		return int(f * 10000)
	}

	runes := []rune(s)

	// 从右往左累加：单位字符推进当前位值，数字字符按当前位值计入总和。
	// 小单位之后出现的大单位（如 三万五千 中的 万）抬升位值而不是覆盖。
	total := 0
	currUnit := 1
	for i := len(runes) - 1; i >= 0; i-- {
		ch := runes[i]
		if u, ok := unitValues[ch]; ok {
			if u > currUnit {
				currUnit = u
			} else {
				currUnit *= u
			}
			continue
		}
		if v, ok := digitValues[ch]; ok {
			total += v * currUnit
			continue
		}
		if ch >= '0' && ch <= '9' {
			total += int(ch-'0') * currUnit
		}
	}

	// "十"/"拾" 开头表示10或10+N（十一、拾贰）
	if runes[0] == '十' || runes[0] == '拾' {
		if len(runes) == 1 {
			total = 10
		} else if v, ok := digitValues[runes[1]]; ok && v < 10 {
			total = 10 + v
		}
	}

	if total > 0 {
		return total
	}
	return 0
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
