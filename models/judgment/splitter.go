package judgment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SectionSplitter 以位置锚点和贪婪提取策略把判决书全文切成11个章节。
// 切分从多个参照点同时推进而不是单次左右扫描：先探测说理、判决主文、
// 事实、证据四类锚点，再从文末向前确定边界。锚点缺失时对应章节留空，
// 切分本身从不失败。
type SectionSplitter struct {
	reasoningPattern *regexp.Regexp
	judgmentPattern  *regexp.Regexp
	factPatterns     []*regexp.Regexp
	evidencePatterns []*regexp.Regexp
	datePattern      *regexp.Regexp
	lawPattern       *regexp.Regexp
	lawLoosePattern  *regexp.Regexp
	trialEndPattern  *regexp.Regexp
	defendantPattern *regexp.Regexp
	custodyPattern   *regexp.Regexp
	prosecutePattern *regexp.Regexp
	procedurePattern *regexp.Regexp
}

// personnelMarkers 文末审判人员角色关键词
var personnelMarkers = []string{"审判长", "审判员", "代理审判员", "书记员", "陪审员"}

// sentencingKeywords 说理部分中量刑情节分析的起始信号词
var sentencingKeywords = []string{
	"从重", "从轻", "减轻", "累犯", "坦白", "自首",
	"立功", "认罪", "悔改", "谅解", "退赃", "初犯",
}

// personnelWindow 在文末多少个字符内搜索审判人员关键词
const personnelWindow = 500

// NewSectionSplitter 编译全部锚点模式。模式写错属于必须立即修复的bug，
// 因此统一使用MustCompile在构造时直接panic。
func NewSectionSplitter() *SectionSplitter {
	return &SectionSplitter{
		reasoningPattern: regexp.MustCompile(`本院(?:经审理)?认为|经(?:审理|审理后)?认为|理由如下`),
		judgmentPattern:  regexp.MustCompile(`(?:判决|裁定)如下|如下(?:判决|裁定)`),
		factPatterns: []*regexp.Regexp{
			regexp.MustCompile(`经(?:开庭)?审理查明`),
			regexp.MustCompile(`(?:指控|起诉指控)[:：]`),
			regexp.MustCompile(`查明(?:如下)?[:：]?`),
			regexp.MustCompile(`事实如下[:：]?`),
			regexp.MustCompile(`本院查明`),
			regexp.MustCompile(`本案事实如下`),
			regexp.MustCompile(`检察院指控[:：]`),
		},
		evidencePatterns: []*regexp.Regexp{
			regexp.MustCompile(`上述事实`),
			regexp.MustCompile(`以上事实`),
			regexp.MustCompile(`证据如下`),
			regexp.MustCompile(`有(?:以下)?证据`),
			regexp.MustCompile(`证据有`),
			regexp.MustCompile(`证据在案`),
			regexp.MustCompile(`经当庭质证`),
			regexp.MustCompile(`证明上述事实的证据`),
			regexp.MustCompile(`证据[:：]`),
			regexp.MustCompile(`证据材料`),
			regexp.MustCompile(`有.*?证实`),
			regexp.MustCompile(`本院(?:确认|认定)的证据`),
		},
		datePattern:      regexp.MustCompile(`[二〇一二三四五六七八九0-9]{4}年\s*[一二三四五六七八九十0-9]{1,2}月\s*[一二三四五六七八九十0-9]{1,3}日`),
		lawPattern:       regexp.MustCompile(`(?:依照|依据|根据|遵照)《.*?》.*?第.*?条.*?之规定`),
		lawLoosePattern:  regexp.MustCompile(`(?:依照|依据|根据|遵照).*?第.*?条.*?规定`),
		trialEndPattern:  regexp.MustCompile(`现已审理终结\s*。?`),
		defendantPattern: regexp.MustCompile(`被告人[：:\s]*`),
		custodyPattern:   regexp.MustCompile(`(?:因本案|因涉嫌|因犯|于).*?(?:拘留|逮捕|取保候审|监视居住|看守所|羁押|取保).*?(?:[。，]|$)`),
		prosecutePattern: regexp.MustCompile(`[^。]*?人民检察院[^。]*?(?:起诉书|指控|公诉)[^。]*?。`),
		procedurePattern: regexp.MustCompile(`[^。]*?(?:适用.*?程序|公开开庭|独任审判|现已审理终结|由.*?审理|合议庭|普通程序)[^。]*?。`),
	}
}

// Split 切分全文。全部11个键总是存在；空输入返回全空章节。
func (sp *SectionSplitter) Split(text string) Sections {
	sections := newSections()
	if text == "" {
		return sections
	}

	// 1. 核心位置探测
	reasoningPos := matchStart(sp.reasoningPattern, text)
	judgmentPos := matchStart(sp.judgmentPattern, text)

	factPos := -1
	for _, p := range sp.factPatterns {
		if pos := matchStart(p, text); pos != -1 && (factPos == -1 || pos < factPos) {
			factPos = pos
		}
	}

	evidencePos := -1
	for _, p := range sp.evidencePatterns {
		pos := matchStart(p, text)
		if pos == -1 {
			continue
		}
		if (pos > factPos || factPos == -1) && (reasoningPos == -1 || pos < reasoningPos) {
			if evidencePos == -1 || pos < evidencePos {
				evidencePos = pos
			}
		}
	}

	// 2. 从后往前确定各部分边界
	dateMatches := sp.datePattern.FindAllStringIndex(text, -1)

	s11Start := -1
	windowStart := offsetFromEnd(text, personnelWindow)
	window := text[windowStart:]
	for _, marker := range personnelMarkers {
		if p := strings.Index(window, marker); p != -1 {
			if abs := windowStart + p; s11Start == -1 || abs < s11Start {
				s11Start = abs
			}
		}
	}
	if s11Start == -1 && len(dateMatches) > 0 {
		s11Start = backupRunes(text, dateMatches[len(dateMatches)-1][0], 50)
	}

	mainBodyEnd := len(text)
	if s11Start != -1 {
		sections[SectionPersonnel] = text[s11Start:]
		mainBodyEnd = s11Start
	}

	reasoningEnd := mainBodyEnd
	if judgmentPos != -1 {
		// 日期兜底可能把11节边界推到判决锚点之前，边界倒置时主文留空
		sections[SectionVerdict] = sliceBounded(text, judgmentPos, mainBodyEnd)
		reasoningEnd = judgmentPos
	} else if lastLawEnd := strings.LastIndex(text, "之规定"); lastLawEnd != -1 && lastLawEnd < mainBodyEnd {
		verdictStart := lastLawEnd + len("之规定")
		sections[SectionVerdict] = sliceBounded(text, verdictStart, mainBodyEnd)
		reasoningEnd = verdictStart
	}

	headAndFactsEnd := reasoningEnd
	if reasoningPos != -1 {
		sp.splitReasoning(sections, sliceBounded(text, reasoningPos, reasoningEnd))
		headAndFactsEnd = reasoningPos
	}

	// 法律依据独立抽取，允许与7/8/10章节在原文上重叠
	if m := sp.lawPattern.FindString(text); m != "" {
		sections[SectionLegalBasis] = m
	} else if m := sp.lawLoosePattern.FindString(text); m != "" {
		sections[SectionLegalBasis] = m
	}

	if factPos == -1 {
		if loc := sp.trialEndPattern.FindStringIndex(text); loc != nil {
			factPos = loc[1]
		}
	}

	headEnd := headAndFactsEnd
	if factPos != -1 {
		if evidencePos != -1 && evidencePos > factPos {
			sections[SectionFacts] = sliceBounded(text, factPos, evidencePos)
			sections[SectionEvidence] = sliceBounded(text, evidencePos, headAndFactsEnd)
		} else {
			sections[SectionFacts] = sliceBounded(text, factPos, headAndFactsEnd)
		}
		headEnd = factPos
	} else if evidencePos != -1 {
		sections[SectionEvidence] = sliceBounded(text, evidencePos, headAndFactsEnd)
		headEnd = evidencePos
	}

	// 3. 首部处理
	sp.splitHead(sections, sliceBounded(text, 0, headEnd))

	return sections
}

// splitReasoning 在说理文本中以量刑信号词所在句子的句号处切分7/8两节
func (sp *SectionSplitter) splitReasoning(sections Sections, reasoningText string) {
	splitPos := -1
	for _, kw := range sentencingKeywords {
		if pos := strings.Index(reasoningText, kw); pos != -1 && (splitPos == -1 || pos < splitPos) {
			splitPos = pos
		}
	}

	if splitPos == -1 {
		sections[SectionConviction] = reasoningText
		return
	}

	if sentenceEnd := strings.LastIndex(reasoningText[:splitPos], "。"); sentenceEnd != -1 {
		cut := sentenceEnd + len("。")
		sections[SectionConviction] = reasoningText[:cut]
		sections[SectionSentencing] = reasoningText[cut:]
	} else {
		sections[SectionConviction] = reasoningText[:splitPos]
		sections[SectionSentencing] = reasoningText[splitPos:]
	}
}

// splitHead 处理首部：1/2节共享"被告人"之后的搜索空间（软切分），
// 3/4节各自用整句模式在全部首部文本中独立匹配。
func (sp *SectionSplitter) splitHead(sections Sections, headText string) {
	if loc := sp.defendantPattern.FindStringIndex(headText); loc != nil {
		defendantHead := headText[loc[0]:]
		sections[SectionDefendant] = defendantHead
		if m := sp.custodyPattern.FindString(defendantHead); m != "" {
			sections[SectionCustody] = m
		}
	} else {
		sections[SectionDefendant] = headPrefix(headText, 300)
	}

	if m := sp.prosecutePattern.FindString(headText); m != "" {
		sections[SectionProsecution] = m
	}
	if m := sp.procedurePattern.FindString(headText); m != "" {
		sections[SectionProcedure] = m
	}
}

// matchStart 返回首个匹配的起始字节偏移，无匹配返回-1
func matchStart(p *regexp.Regexp, text string) int {
	if loc := p.FindStringIndex(text); loc != nil {
		return loc[0]
	}
	return -1
}

// sliceBounded 区间裁剪，容忍锚点探测产生的越界/倒置边界
func sliceBounded(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}

// offsetFromEnd 返回倒数第n个字符的字节偏移
func offsetFromEnd(s string, n int) int {
	return backupRunes(s, len(s), n)
}

// backupRunes 从字节偏移pos向前回退n个字符
func backupRunes(s string, pos, n int) int {
	for i := 0; i < n && pos > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:pos])
		pos -= size
	}
	return pos
}

// headPrefix 取前n个字符
func headPrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
