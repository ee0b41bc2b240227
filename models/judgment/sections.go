package judgment

// 判决书的11个规范章节。键名前缀数字保持文书中的自然顺序，
// 同时直接用作输出表中 SECTION_N_xxx 列名的后半段。
const (
	SectionDefendant   = "1_被告人基本信息及前科劣迹"
	SectionCustody     = "2_本案强制措施及羁押情况"
	SectionProsecution = "3_公诉机关及起诉信息"
	SectionProcedure   = "4_审理程序与诉讼参与情况"
	SectionFacts       = "5_经审理查明的犯罪事实"
	SectionEvidence    = "6_证据列举"
	SectionConviction  = "7_罪名认定理由"
	SectionSentencing  = "8_量刑情节分析"
	SectionLegalBasis  = "9_判决法律依据"
	SectionVerdict     = "10_判决主文"
	SectionPersonnel   = "11_审判人员及日期"
)

// SectionKeys 按文书顺序排列的全部章节键
var SectionKeys = []string{
	SectionDefendant,
	SectionCustody,
	SectionProsecution,
	SectionProcedure,
	SectionFacts,
	SectionEvidence,
	SectionConviction,
	SectionSentencing,
	SectionLegalBasis,
	SectionVerdict,
	SectionPersonnel,
}

// Sections 章节名到原文切片的映射。任一章节都可能为空串：
// 锚点短语缺失是数据质量信号而不是错误。
type Sections map[string]string

// newSections 构造含全部11个键的空章节表
func newSections() Sections {
	s := make(Sections, len(SectionKeys))
	for _, key := range SectionKeys {
		s[key] = ""
	}
	return s
}
