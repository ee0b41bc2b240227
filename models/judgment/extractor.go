package judgment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/citation"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/cnnum"
	"github.com/sirupsen/logrus"
)

// FactSegmenter 从犯罪事实文本中提取关键词，可选实现。
// 为空时抽取结果不含案情关键词字段值。
type FactSegmenter interface {
	Keywords(text string, topN int) []string
}

// Options 抽取器可调参数
type Options struct {
	// ReferenceYear 判决日期缺失时计算年龄的默认年份
	ReferenceYear int
	// FactSummaryLen 作案情况摘要的最大长度（按字符计）
	FactSummaryLen int
	// Segmenter 案情关键词分词器，nil表示关闭
	Segmenter FactSegmenter
	// KeywordTopN 案情关键词数量
	KeywordTopN int
}

// Extractor 判决书字段抽取器：先切分章节，再在各章节内做定向抽取。
// 并发安全，同一实例可被多个goroutine共用。
type Extractor struct {
	splitter *SectionSplitter
	rules    *ruleSet
	opts     Options
	log      *logrus.Logger
}

// NewExtractor 构造抽取器。所有正则在此刻编译。
func NewExtractor(opts Options) *Extractor {
	if opts.ReferenceYear <= 0 {
		opts.ReferenceYear = 2013
	}
	if opts.FactSummaryLen <= 0 {
		opts.FactSummaryLen = 200
	}
	if opts.KeywordTopN <= 0 {
		opts.KeywordTopN = 10
	}
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	return &Extractor{
		splitter: NewSectionSplitter(),
		rules:    newRuleSet(),
		opts:     opts,
		log:      log,
	}
}

// ExtractAll 对判决书全文做完整抽取，返回扁平记录。
// 空文本返回空记录。任何字段抽取失败都不中断其余字段。
func (e *Extractor) ExtractAll(text string) Record {
	if text == "" {
		return Record{}
	}

	sec := e.splitter.Split(text)
	res := Record{}

	// 判决年份作为年龄计算参考，审判人员段找不到日期时退回全文
	refYear := e.opts.ReferenceYear
	dateSource := sec[SectionPersonnel]
	if dateSource == "" {
		dateSource = text
	}
	if m := e.rules.judgmentDate.FindStringSubmatch(dateSource); m != nil {
		if y := yearFromDate(m[1]); y > 0 {
			refYear = y
		}
	}

	e.extractDefendant(sec, res, refYear)
	e.extractCustody(sec, res)
	e.extractProsecution(sec, res)
	e.extractProcedure(sec, res)
	e.extractFacts(sec, res)
	e.extractConviction(sec, res, text)
	e.extractSentencingFactors(sec, res)
	e.extractLegalBasis(sec, res)
	e.extractVerdict(sec, res)
	e.extractPersonnel(sec, res)

	for _, key := range SectionKeys {
		res[SectionField(key)] = sec[key]
	}
	return res
}

func (e *Extractor) extractDefendant(sec Sections, res Record, refYear int) {
	s1 := sec[SectionDefendant]

	res["姓名"] = group1(e.rules.name, s1)
	if res["姓名"] == nil {
		e.log.WithField("section_len", len(s1)).Debug("未能识别被告人姓名")
	}

	switch {
	case strings.Contains(s1, "盲"):
		res["特殊身体状况"] = "盲人"
	case strings.Contains(s1, "聋哑"):
		res["特殊身体状况"] = "聋哑人"
	case strings.Contains(s1, "残疾"):
		res["特殊身体状况"] = "残疾"
	default:
		res["特殊身体状况"] = "正常"
	}

	switch {
	case strings.Contains(s1, "完全刑事责任能力"):
		res["精神状态"] = "完全刑事责任能力"
	case strings.Contains(s1, "限制刑事责任能力"):
		res["精神状态"] = "限制刑事责任能力"
	case strings.Contains(s1, "精神病"):
		res["精神状态"] = "精神病相关"
	default:
		res["精神状态"] = "正常"
	}

	res["性别"] = group1(e.rules.gender, s1)

	var birth string
	for _, p := range e.rules.birth {
		if m := p.FindStringSubmatch(s1); m != nil {
			birth = m[1]
			break
		}
	}
	if birth != "" {
		res["出生日期"] = birth
	} else {
		res["出生日期"] = nil
	}

	minor := 0
	if strings.Contains(s1, "未成年") {
		minor = 1
	}

	res["年龄"] = nil
	if birth != "" {
		if birthYear := yearFromDate(birth); birthYear > 0 && birthYear < refYear {
			age := refYear - birthYear
			res["年龄"] = age
			if age < 18 {
				minor = 1
			}
		}
	}
	if res["年龄"] == nil {
		if m := e.rules.ageDirect.FindStringSubmatch(s1); m != nil {
			age, err := strconv.Atoi(m[1])
			if err == nil {
				res["年龄"] = age
				if age < 18 {
					minor = 1
				}
			}
		}
	}
	res["是否未成年"] = minor

	res["出生地/户籍地"] = group1(e.rules.location, s1)
	res["民族"] = group1(e.rules.ethnic, s1)
	res["文化程度"] = group1(e.rules.education, s1)
	res["职业"] = e.extractOccupation(s1)
	res["住所地"] = group1(e.rules.residence, s1)

	prior := joinMatches(e.rules.priorCriminal, s1)
	if prior == "" {
		prior = "无"
	}
	res["刑事前科"] = prior
	admin := joinMatches(e.rules.priorAdmin, s1)
	if admin == "" {
		admin = "无"
	}
	res["行政处罚/非刑罚处理"] = admin

	if prior == "无" {
		res["是否初犯"] = 1
	} else {
		res["是否初犯"] = 0
	}
	// 累犯认定同时看被告人段和量刑情节段
	res["是否累犯"] = boolMatch(e.rules.recidivist, s1+sec[SectionSentencing])
}

func (e *Extractor) extractOccupation(s1 string) any {
	for _, kw := range occupationKeywords {
		if strings.Contains(s1, kw) {
			return kw
		}
	}
	return group1(e.rules.occupationFallback, s1)
}

func (e *Extractor) extractCustody(sec Sections, res Record) {
	s2 := sec[SectionCustody]
	res["刑事拘留时间"] = group1(e.rules.detention, s2)
	res["逮捕时间"] = group1(e.rules.arrest, s2)
	res["当前羁押地点"] = group1(e.rules.jail, s2)
}

func (e *Extractor) extractProsecution(sec Sections, res Record) {
	s3 := sec[SectionProsecution]
	res["公诉机关"] = group1(e.rules.prosecutor, s3)
	res["起诉书文号"] = group1(e.rules.indictment, s3)
	res["指控罪名"] = group1(e.rules.charge, s3)
	res["提起公诉日期"] = group1(e.rules.prosecutionDate, s3)
}

func (e *Extractor) extractProcedure(sec Sections, res Record) {
	s4 := sec[SectionProcedure]
	res["审理程序"] = group1(e.rules.procedure, s4)
	switch {
	case strings.Contains(s4, "独任"):
		res["审判组织形式"] = "独任审判"
	case strings.Contains(s4, "合议庭"):
		res["审判组织形式"] = "合议庭"
	default:
		res["审判组织形式"] = nil
	}
	if strings.Contains(s4, "公开") {
		res["是否公开审理"] = "是"
	} else {
		res["是否公开审理"] = "否"
	}
	if strings.Contains(s4, "到庭") {
		res["被告人出庭情况"] = "到庭参加诉讼"
	} else {
		res["被告人出庭情况"] = nil
	}
	if strings.Contains(s4, "终结") {
		res["审理状态"] = "已审理终结"
	} else {
		res["审理状态"] = nil
	}
}

func (e *Extractor) extractFacts(sec Sections, res Record) {
	s5 := sec[SectionFacts]
	res["作案时间"] = group1(e.rules.offenseTime, s5)
	res["作案地点"] = group1(e.rules.offensePlace, s5)
	res["作案情况"] = summarize(s5, e.opts.FactSummaryLen)

	if m := e.rules.money.FindStringSubmatch(s5); m != nil {
		res["涉案金额"] = cnnum.ToInt(m[1])
	} else {
		res["涉案金额"] = 0
	}

	if e.opts.Segmenter != nil {
		res["案情关键词"] = strings.Join(e.opts.Segmenter.Keywords(s5, e.opts.KeywordTopN), "；")
	} else {
		res["案情关键词"] = ""
	}
}

func (e *Extractor) extractConviction(sec Sections, res Record, fullText string) {
	s7 := sec[SectionConviction]
	if strings.Contains(s7, "非法占有") {
		res["主观方面"] = "以非法占有为目的"
	} else {
		res["主观方面"] = nil
	}
	if m := e.rules.action.FindStringSubmatch(s7); m != nil {
		res["客观行为"] = m[1]
	} else if s7 != "" {
		res["客观行为"] = headPrefix(s7, 100)
	} else {
		res["客观行为"] = nil
	}
	res["法律定性"] = group1(e.rules.crimeType, s7)
	// 未遂在认定理由之外的正文中出现同样计入
	res["是否未遂"] = boolMatch(e.rules.attempt, s7+fullText)
}

func (e *Extractor) extractSentencingFactors(sec Sections, res Record) {
	s8 := sec[SectionSentencing]
	res["从重情节"] = joinUnique(e.rules.aggravating, s8)
	res["从轻情节"] = joinUnique(e.rules.mitigating, s8)
	res["是否自首"] = boolMatch(e.rules.surrender, s8)
	res["是否立功"] = boolMatch(e.rules.merit, s8)
	res["是否取得谅解"] = boolMatch(e.rules.pardon, s8)
	res["是否如实供述"] = boolMatch(e.rules.truth, s8)
	res["是否退赃"] = boolMatch(e.rules.returnProperty, s8)

	switch {
	case res["是否立功"] == 1:
		res["surrender_type"] = 2
	case res["是否自首"] == 1:
		res["surrender_type"] = 1
	default:
		res["surrender_type"] = 0
	}

	switch {
	case strings.Contains(s8, "从犯"):
		res["主从犯身份"] = "从犯"
	case strings.Contains(s8, "主犯"):
		res["主从犯身份"] = "主犯"
	default:
		res["主从犯身份"] = "不详"
	}
}

func (e *Extractor) extractLegalBasis(sec Sections, res Record) {
	s9 := sec[SectionLegalBasis]
	if s9 == "" {
		res["法律依据"] = ""
		return
	}
	res["法律依据"] = citation.Join(citation.Parse(s9))
}

func (e *Extractor) extractVerdict(sec Sections, res Record) {
	s10 := sec[SectionVerdict]

	res["案由"] = res["指控罪名"]
	if m := e.rules.finalCrime.FindStringSubmatch(s10); m != nil {
		res["罪名"] = m[1]
		res["案由"] = m[1]
	} else {
		res["罪名"] = nil
	}

	if m := e.rules.sentence.FindStringSubmatch(s10); m != nil {
		res["主刑"] = m[1]
		res["刑期_年"] = optionalInt(m[2])
		res["刑期_月"] = optionalInt(m[3])
	} else {
		res["主刑"] = nil
		res["刑期_年"] = 0
		res["刑期_月"] = 0
	}

	if m := e.rules.fine.FindStringSubmatch(s10); m != nil {
		res["罚金"] = cnnum.ToInt(m[1])
	} else {
		res["罚金"] = 0
	}
	res["附加刑"] = group1(e.rules.extraPenalty, s10)
	res["刑期起止"] = group1(e.rules.duration, s10)
	res["罚金缴纳期限"] = group1(e.rules.fineLimit, s10)
}

func (e *Extractor) extractPersonnel(sec Sections, res Record) {
	s11 := sec[SectionPersonnel]
	res["审判员"] = group1(e.rules.judge, s11)
	res["书记员"] = group1(e.rules.clerk, s11)
	res["判决日期"] = group1(e.rules.judgmentDate, s11)
	if strings.Contains(s11, "合议庭") {
		res["是否合议庭"] = "是"
	} else {
		res["是否合议庭"] = "否"
	}
	if m := e.rules.assessor.FindStringSubmatch(s11); m != nil {
		res["人民陪审员"] = m[1]
	} else {
		res["人民陪审员"] = "无"
	}
}

// group1 返回首个匹配的第1捕获组，未命中返回nil
func group1(p *regexp.Regexp, text string) any {
	if m := p.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return nil
}

func boolMatch(p *regexp.Regexp, text string) int {
	if p.MatchString(text) {
		return 1
	}
	return 0
}

// joinMatches 所有匹配的第1捕获组按出现顺序用中文分号连接
func joinMatches(p *regexp.Regexp, text string) string {
	var parts []string
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		parts = append(parts, m[1])
	}
	return strings.Join(parts, "；")
}

// joinUnique 同joinMatches，但去重，保留首次出现顺序
func joinUnique(p *regexp.Regexp, text string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			parts = append(parts, m[1])
		}
	}
	return strings.Join(parts, "；")
}

var fourDigits = regexp.MustCompile(`\d{4}`)

// yearFromDate 从日期串里找出四位年份，支持中文大写年份（二〇一三）。
// 找不到返回0。
func yearFromDate(date string) int {
	normalized := chineseDigitReplacer.Replace(date)
	m := fourDigits.FindString(normalized)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}

var chineseDigitReplacer = strings.NewReplacer(
	"〇", "0", "一", "1", "二", "2", "三", "3", "四", "4",
	"五", "5", "六", "6", "七", "7", "八", "8", "九", "9",
	"．", "-", ".", "-",
)

// summarize 超长事实文本截断加省略号，长度按字符计
func summarize(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func optionalInt(s string) int {
	if s == "" {
		return 0
	}
	return cnnum.ToInt(s)
}
