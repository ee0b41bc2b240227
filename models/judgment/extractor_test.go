package judgment

import (
	"reflect"
	"testing"
)

func TestExtractAllEmptyInput(t *testing.T) {
	e := NewExtractor(Options{})
	res := e.ExtractAll("")
	if len(res) != 0 {
		t.Errorf("空输入期望空记录, 实际 %d 个字段", len(res))
	}
}

func TestExtractAllDefendantProfile(t *testing.T) {
	e := NewExtractor(Options{})
	res := e.ExtractAll(sampleJudgment)

	tests := []struct {
		field string
		want  any
	}{
		{"姓名", "张三"},
		{"性别", "男"},
		{"出生日期", "1990年1月1日"},
		{"年龄", 23},
		{"是否未成年", 0},
		{"民族", "汉族"},
		{"文化程度", "初中文化"},
		{"职业", "农民"},
		{"住所地", "北京市海淀区某村"},
		{"特殊身体状况", "正常"},
		{"精神状态", "正常"},
		{"刑事前科", "无"},
		{"是否初犯", 1},
		{"是否累犯", 0},
	}
	for _, tt := range tests {
		if got := res[tt.field]; got != tt.want {
			t.Errorf("%s = %v, 期望 %v", tt.field, got, tt.want)
		}
	}
}

func TestExtractAllProsecutionAndProcedure(t *testing.T) {
	e := NewExtractor(Options{})
	res := e.ExtractAll(sampleJudgment)

	tests := []struct {
		field string
		want  any
	}{
		{"公诉机关", "北京市海淀区人民检察院"},
		{"起诉书文号", "京海检刑诉（2013）100号起诉书"},
		{"指控罪名", "盗窃罪"},
		{"提起公诉日期", "2013年3月1日"},
		{"审理程序", "简易程序"},
		{"审判组织形式", "独任审判"},
		{"是否公开审理", "是"},
		{"被告人出庭情况", "到庭参加诉讼"},
		{"审理状态", "已审理终结"},
		{"刑事拘留时间", "2013年2月1日"},
		{"当前羁押地点", "北京市海淀区看守所"},
	}
	for _, tt := range tests {
		if got := res[tt.field]; got != tt.want {
			t.Errorf("%s = %v, 期望 %v", tt.field, got, tt.want)
		}
	}
}

func TestExtractAllFactsAndVerdict(t *testing.T) {
	e := NewExtractor(Options{})
	res := e.ExtractAll(sampleJudgment)

	tests := []struct {
		field string
		want  any
	}{
		{"作案时间", "2013年1月15日"},
		{"作案地点", "北京市海淀区某小区附近"},
		{"涉案金额", 3000},
		{"主观方面", "以非法占有为目的"},
		{"法律定性", "盗窃罪"},
		{"罪名", "盗窃罪"},
		{"案由", "盗窃罪"},
		{"主刑", "拘役"},
		{"刑期_年", 0},
		{"刑期_月", 6},
		{"罚金", 1000},
		{"是否自首", 1},
		{"是否如实供述", 1},
		{"是否立功", 0},
		{"surrender_type", 1},
		{"主从犯身份", "不详"},
		{"法律依据", "《中华人民共和国刑法》第264条；《中华人民共和国刑法》第67条第3款"},
	}
	for _, tt := range tests {
		if got := res[tt.field]; got != tt.want {
			t.Errorf("%s = %v, 期望 %v", tt.field, got, tt.want)
		}
	}
}

func TestExtractAllPersonnel(t *testing.T) {
	e := NewExtractor(Options{})
	res := e.ExtractAll(sampleJudgment)

	tests := []struct {
		field string
		want  any
	}{
		{"审判员", "王某某"},
		{"书记员", "赵某某"},
		{"判决日期", "二〇一三年四月十日"},
		{"是否合议庭", "否"},
		{"人民陪审员", "无"},
	}
	for _, tt := range tests {
		if got := res[tt.field]; got != tt.want {
			t.Errorf("%s = %v, 期望 %v", tt.field, got, tt.want)
		}
	}
}

func TestExtractAllSectionFields(t *testing.T) {
	e := NewExtractor(Options{})
	res := e.ExtractAll(sampleJudgment)

	for _, key := range SectionKeys {
		if _, ok := res[SectionField(key)]; !ok {
			t.Errorf("记录缺少章节原文列 %q", SectionField(key))
		}
	}
}

func TestExtractAllIdempotent(t *testing.T) {
	e := NewExtractor(Options{})
	first := e.ExtractAll(sampleJudgment)
	second := e.ExtractAll(sampleJudgment)

	if !reflect.DeepEqual(first, second) {
		t.Error("重复抽取结果不一致")
	}
}

func TestExtractAllReferenceYearFallback(t *testing.T) {
	// 无判决日期时用配置的参考年份计算年龄
	e := NewExtractor(Options{ReferenceYear: 2012})
	res := e.ExtractAll("被告人李四，女，1990年1月1日出生，汉族。经审理查明：案情。")

	if got := res["年龄"]; got != 22 {
		t.Errorf("年龄 = %v, 期望 22", got)
	}
	if got := res["性别"]; got != "女" {
		t.Errorf("性别 = %v, 期望 女", got)
	}
}

func TestExtractAllMinor(t *testing.T) {
	e := NewExtractor(Options{})
	text := "被告人王五，男，1998年6月1日出生。经审理查明：案情。" +
		"审判员孙某某二〇一三年四月十日"

	res := e.ExtractAll(text)
	if got := res["年龄"]; got != 15 {
		t.Errorf("年龄 = %v, 期望 15", got)
	}
	if got := res["是否未成年"]; got != 1 {
		t.Errorf("是否未成年 = %v, 期望 1", got)
	}
}

func TestExtractAllFactSummaryTruncation(t *testing.T) {
	e := NewExtractor(Options{FactSummaryLen: 10})
	res := e.ExtractAll(sampleJudgment)

	summary, ok := res["作案情况"].(string)
	if !ok {
		t.Fatalf("作案情况类型错误: %T", res["作案情况"])
	}
	if got := len([]rune(summary)); got != 13 {
		t.Errorf("摘要长度 = %d, 期望 10+省略号", got)
	}
}

type fixedSegmenter struct{ words []string }

func (s fixedSegmenter) Keywords(string, int) []string { return s.words }

func TestExtractAllFactKeywords(t *testing.T) {
	e := NewExtractor(Options{Segmenter: fixedSegmenter{words: []string{"盗窃", "手机"}}})
	res := e.ExtractAll(sampleJudgment)

	if got := res["案情关键词"]; got != "盗窃；手机" {
		t.Errorf("案情关键词 = %v, 期望 盗窃；手机", got)
	}
}
