package judgment

import "regexp"

// numPattern 允许中文数字、阿拉伯数字（含全角）、点号的数字串
const numPattern = `[0-9.一二三四五六七八九十百千万壹贰叁肆伍陆柒捌玖拾佰仟万０-９．]+`

// ruleSet 字段抽取规则集。每条规则一个独立的编译模式，规则之间互不依赖，
// 单条规则落空只影响自己的字段。构造即编译，模式错误直接panic。
type ruleSet struct {
	name      *regexp.Regexp
	gender    *regexp.Regexp
	ageDirect *regexp.Regexp
	// 出生日期候选模式，按优先级排列，首个命中即停
	birth []*regexp.Regexp

	location  *regexp.Regexp
	ethnic    *regexp.Regexp
	education *regexp.Regexp
	residence *regexp.Regexp

	priorCriminal *regexp.Regexp
	priorAdmin    *regexp.Regexp
	recidivist    *regexp.Regexp

	detention *regexp.Regexp
	arrest    *regexp.Regexp
	jail      *regexp.Regexp

	prosecutor      *regexp.Regexp
	indictment      *regexp.Regexp
	charge          *regexp.Regexp
	prosecutionDate *regexp.Regexp

	procedure *regexp.Regexp

	offenseTime  *regexp.Regexp
	offensePlace *regexp.Regexp
	money        *regexp.Regexp

	action    *regexp.Regexp
	crimeType *regexp.Regexp
	attempt   *regexp.Regexp

	aggravating *regexp.Regexp
	mitigating  *regexp.Regexp

	surrender      *regexp.Regexp
	merit          *regexp.Regexp
	pardon         *regexp.Regexp
	truth          *regexp.Regexp
	returnProperty *regexp.Regexp

	finalCrime   *regexp.Regexp
	sentence     *regexp.Regexp
	fine         *regexp.Regexp
	extraPenalty *regexp.Regexp
	duration     *regexp.Regexp
	fineLimit    *regexp.Regexp

	judge        *regexp.Regexp
	clerk        *regexp.Regexp
	assessor     *regexp.Regexp
	judgmentDate *regexp.Regexp

	occupationFallback *regexp.Regexp
}

// occupationKeywords 常见职业关键词，命中即取
var occupationKeywords = []string{
	"农民", "无业", "务工", "工人", "教师", "医生", "干部", "学生", "个体", "职员",
	"商人", "经商", "司机", "保安", "退休", "无固定职业", "退休人员", "公司职员",
	"经理", "法务", "律师", "会计", "厨师", "快递员", "外卖员", "程序员", "工程师",
	"负责人", "法定代表人", "副经理", "总经理", "员工",
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		name:      regexp.MustCompile(`被告人([^\s，,。；：(（]{2,10})`),
		gender:    regexp.MustCompile(`[，,。、\s(（](男|女)[，,。、\s)）]?`),
		ageDirect: regexp.MustCompile(`[，,。、\s(（]现年(\d{1,3})岁`),
		birth: []*regexp.Regexp{
			// 1980年1月1日出生
			regexp.MustCompile(`((?:一九|二〇|[12][09])[\d零一二三四五六七八九]{2}年\d{1,2}月\d{1,2}日)\s*(?:出生|生)`),
			// 1980.1.1出生
			regexp.MustCompile(`(\d{4}[.．]\d{1,2}[.．]\d{1,2})\s*(?:出生|生)`),
			// 出生于1980年1月1日
			regexp.MustCompile(`(?:出生于|生于|出生)\s*((?:一九|二〇|[12][09])[\d零一二三四五六七八九]{2}年\d{1,2}月\d{1,2}日)`),
			// 缺"日"的简化日期
			regexp.MustCompile(`([12][09]\d{2}年\d{1,2}月\d{1,2}(?:日)?)\s*(?:出生|生|于|在)`),
			// 裸1980.1.1
			regexp.MustCompile(`(\d{4}[.．]\d{1,2}[.．]\d{1,2})`),
		},

		location:  regexp.MustCompile(`(?:出生于|户籍所在地|户籍地|籍贯|出生地|系|住)([\p{Han}]{2,30}?)(?:[，,。、\s(（]|$)`),
		ethnic:    regexp.MustCompile(`([\p{Han}]{1,10}族)`),
		education: regexp.MustCompile(`([^\s，,。、；]{2,10}?(?:文化|毕业|在读|程度|文盲|识字|小学|初中|高中|中专|大专|大学|本科|研究生|硕士|博士))`),
		residence: regexp.MustCompile(`(?:住所地|住|现住|居住在)([\p{Han}\d]{2,40}?)(?:[，,。、；\s(（]|$)`),

		priorCriminal: regexp.MustCompile(`(\d{4}年\d{1,2}月.*?被判处.*?)(?:[；。]|$)`),
		priorAdmin:    regexp.MustCompile(`(\d{4}年\d{1,2}月.*?被(?:劳动教养|行政拘留|处罚).*?)(?:[；。]|$)`),
		recidivist:    regexp.MustCompile(`系累犯|构成累犯|是累犯|应从重处罚|应当从重处罚`),

		detention: regexp.MustCompile(`(?:于)?(\d{4}年\d{1,2}月\d{1,2}日).*?被刑事拘留`),
		arrest:    regexp.MustCompile(`(?:于)?(\d{4}年\d{1,2}月\d{1,2}日).*?被逮捕`),
		jail:      regexp.MustCompile(`现押于([\p{Han}]+看守所)`),

		prosecutor:      regexp.MustCompile(`([\p{Han}]+人民检察院)`),
		indictment:      regexp.MustCompile(`以(.*?起诉书)`),
		charge:          regexp.MustCompile(`(?:指控|起诉指控)被告人.*?犯([\p{Han}]+罪)`),
		prosecutionDate: regexp.MustCompile(`于(\d{4}年\d{1,2}月\d{1,2}日)向本院提起公诉`),

		procedure: regexp.MustCompile(`适用(.*?程序)`),

		offenseTime:  regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日\d{1,2}时许|\d{4}年\d{1,2}月\d{1,2}日)`),
		offensePlace: regexp.MustCompile(`在([\p{Han}\d]+(?:附近|路|街|巷|号|店|家|处|地))`),
		money:        regexp.MustCompile(`(?:共计|价值|金额为|人民币)(?:约)?(` + numPattern + `)余?元`),

		action:    regexp.MustCompile(`，(.*?)，其行为已构成`),
		crimeType: regexp.MustCompile(`构成([\p{Han}]+罪)`),
		attempt:   regexp.MustCompile(`犯罪未遂|未遂|因意志以外原因未得逞`),

		aggravating: regexp.MustCompile(`(累犯|前科|主观恶性大|多次|应当从重处罚|地位作用突出|手段残忍|社会影响恶劣|情节严重)`),
		mitigating:  regexp.MustCompile(`(坦白|如实供述|谅解|初犯|偶犯|赃物已全部追回|可以从轻处罚|退缴全部赃款|减少社会危害|认罪悔罪|自愿认罪)`),

		surrender:      regexp.MustCompile(`系自首|构成自首|有自首情节|主动投案`),
		merit:          regexp.MustCompile(`立功表现|构成立功|有立功情节`),
		pardon:         regexp.MustCompile(`取得谅解|达成和解|谅解了被告人|达成协议`),
		truth:          regexp.MustCompile(`如实供述|坦白|认罪态度较好|能够认罪`),
		returnProperty: regexp.MustCompile(`退赃|退赔|退缴|赔偿|赃物已全部追回|退还`),

		finalCrime:   regexp.MustCompile(`犯([\p{Han}]+罪)`),
		sentence:     regexp.MustCompile(`判处(有期徒刑|拘役|管制|无期徒刑|死刑|罚金)(?:(` + numPattern + `)年)?(?:零?(` + numPattern + `)个月)?(?:(` + numPattern + `)日)?`),
		fine:         regexp.MustCompile(`罚金人民币(` + numPattern + `)元`),
		extraPenalty: regexp.MustCompile(`并处(罚金人民币` + numPattern + `元)`),
		duration:     regexp.MustCompile(`自(\d{4}年\d{1,2}月\d{1,2}日起至\d{4}年\d{1,2}月\d{1,2}日止)`),
		fineLimit:    regexp.MustCompile(`罚金限(.*?缴纳)`),

		judge:        regexp.MustCompile(`审判员\s*([\p{Han}]{2,3})`),
		clerk:        regexp.MustCompile(`书记员\s*([\p{Han}]{2,3})`),
		assessor:     regexp.MustCompile(`人民陪审员\s*([\p{Han}]{2,3})`),
		judgmentDate: regexp.MustCompile(`([二〇一二三四五六七八九]{4}年[一二三四五六七八九十]{1,2}月[一二三四五六七八九十]{1,3}日)`),

		occupationFallback: regexp.MustCompile(`(?:系|为|从事)([^\s，,。、；]{2,10}?(?:人员|工作|职业|为业|经理|职员|工人|农民))`),
	}
}
