// Package citation extracts normalized statute citations from the
// legal-basis block of a judgment. A citation renders as 《法律名》第N条 or
// 《法律名》第N条第M款; repeated citations are kept because downstream
// statistics count raw frequency.
package citation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/cnnum"
)

// Separator 扁平化多条引用时使用的全角分号
const Separator = "；"

var (
	lawNamePattern   = regexp.MustCompile(`《([^》]+)》`)
	articlePattern   = regexp.MustCompile(`第([^条]+)条`)
	paragraphPattern = regexp.MustCompile(`第([^款]+)款`)
	partSplitPattern = regexp.MustCompile(`[，,、；\s]+`)
	leadingWords     = regexp.MustCompile(`^(?:依照|依据|根据|遵照)`)
)

// Parse 从法律依据文本中解析标准化引用列表。
// 顺序与原文一致，重复保留；无法解析的条号片段被跳过。
func Parse(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var citations []string

	locs := lawNamePattern.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		lawName := normalizeLawName(text[loc[2]:loc[3]])

		// 条款子句：书名号之后到下一个《、全角/半角分号、"之规定"或文末为止
		clauseStart := loc[1]
		clauseEnd := len(text)
		if i+1 < len(locs) && locs[i+1][0] < clauseEnd {
			clauseEnd = locs[i+1][0]
		}
		clause := text[clauseStart:clauseEnd]
		clause = cutAtAny(clause, "；", ";", "之规定")
		clause = strings.TrimLeft(clause, ":： \t")

		for _, part := range partSplitPattern.Split(clause, -1) {
			part = strings.TrimSpace(part)
			if part == "" || !strings.Contains(part, "条") {
				continue
			}

			article, paragraph := parseArticleNumber(part)
			if article == 0 {
				continue
			}

			if paragraph > 0 {
				citations = append(citations, fmt.Sprintf("《%s》第%d条第%d款", lawName, article, paragraph))
			} else {
				citations = append(citations, fmt.Sprintf("《%s》第%d条", lawName, article))
			}
		}
	}

	return citations
}

// Join 将引用列表拼为单字段值
func Join(citations []string) string {
	return strings.Join(citations, Separator)
}

// parseArticleNumber 解析"第N条[第M款]"，返回(条号, 款号)。
// 款号只在条号之后查找，避免把"六十七条第三"整体当成款号。
func parseArticleNumber(part string) (int, int) {
	loc := articlePattern.FindStringSubmatchIndex(part)
	if loc == nil {
		return 0, 0
	}
	article := cnnum.ToInt(part[loc[2]:loc[3]])

	paragraph := 0
	if pm := paragraphPattern.FindStringSubmatch(part[loc[1]:]); pm != nil {
		paragraph = cnnum.ToInt(pm[1])
	}

	return article, paragraph
}

func normalizeLawName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "（", "(")
	name = strings.ReplaceAll(name, "）", ")")
	return leadingWords.ReplaceAllString(name, "")
}

// cutAtAny 在任一标记的首次出现处截断
func cutAtAny(s string, marks ...string) string {
	for _, mark := range marks {
		if idx := strings.Index(s, mark); idx >= 0 {
			s = s[:idx]
		}
	}
	return s
}
