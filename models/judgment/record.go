package judgment

import "fmt"

// Record 单份判决书的结构化抽取结果：字段名到值的扁平映射。
// 值类型限定为 string、int、nil。布尔字段用0/1表示，
// 解析失败的字段为nil/空串/0，而不是缺键。
type Record map[string]any

// SectionField 返回章节原文在输出表中的列名
func SectionField(sectionKey string) string {
	return "SECTION_" + sectionKey
}

// AdCodeField 行政区划代码列，由LocationMapper在抽取后附加
const AdCodeField = "AdCode"

// MainFields 完整性统计的主字段：11个章节原文列。
// 章节为空说明切分锚点缺失，是最主要的数据质量信号。
var MainFields = buildMainFields()

func buildMainFields() []string {
	fields := make([]string, 0, len(SectionKeys))
	for _, key := range SectionKeys {
		fields = append(fields, SectionField(key))
	}
	return fields
}

// SubFields 完整性统计的子字段
var SubFields = []string{
	"姓名", "性别", "年龄", "文化程度", "职业",
	"是否未成年", "是否累犯", "是否初犯", "是否自首", "是否立功",
	"是否取得谅解", "是否如实供述", "是否退赃", "是否未遂",
	"surrender_type", "案由", "主从犯身份", "特殊身体状况", "精神状态",
	"涉案金额", "罚金", "罪名", "主刑", "出生日期", AdCodeField,
}

// BoolFields 0/1字段，输出前统一回填0
var BoolFields = []string{
	"是否自首", "是否立功", "是否取得谅解", "是否如实供述", "是否未遂",
	"是否累犯", "是否初犯", "是否退赃", "是否未成年",
}

// NumFields 整数字段，输出前统一回填0
var NumFields = []string{"罚金", "涉案金额", "surrender_type", "刑期_年", "刑期_月", "年龄"}

// FieldOrder 输出CSV的列顺序：语义字段在前，章节原文列在后
var FieldOrder = buildFieldOrder()

func buildFieldOrder() []string {
	fields := []string{
		"姓名", "性别", "出生日期", "年龄", "是否未成年",
		"民族", "文化程度", "职业", "出生地/户籍地", "住所地",
		"特殊身体状况", "精神状态",
		"刑事前科", "行政处罚/非刑罚处理", "是否初犯", "是否累犯",
		"刑事拘留时间", "逮捕时间", "当前羁押地点",
		"公诉机关", "起诉书文号", "指控罪名", "提起公诉日期",
		"审理程序", "审判组织形式", "是否公开审理", "被告人出庭情况", "审理状态",
		"作案时间", "作案地点", "作案情况", "案情关键词", "涉案金额",
		"主观方面", "客观行为", "法律定性", "是否未遂",
		"从重情节", "从轻情节",
		"是否自首", "是否立功", "是否取得谅解", "是否如实供述", "是否退赃",
		"surrender_type", "主从犯身份",
		"法律依据",
		"案由", "罪名", "主刑", "刑期_年", "刑期_月", "罚金", "附加刑",
		"刑期起止", "罚金缴纳期限",
		"审判员", "书记员", "人民陪审员", "是否合议庭", "判决日期",
		AdCodeField,
	}
	for _, key := range SectionKeys {
		fields = append(fields, SectionField(key))
	}
	return fields
}

// IsMissing 判断字段是否缺失。0值的布尔和数值字段不算缺失，
// 与完整性统计口径一致。
func (r Record) IsMissing(field string) bool {
	v, ok := r[field]
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr {
		return s == ""
	}
	return false
}

// StringAt 字段值的CSV渲染。nil渲染为空串。
func (r Record) StringAt(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case int:
		return fmt.Sprintf("%d", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
