package judgment

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-ego/gse"
)

// LegalSegmenter 法律文本分词器，从犯罪事实文本中提取高频关键词。
// 实现FactSegmenter接口。
type LegalSegmenter struct {
	gse         gse.Segmenter
	userDict    map[string]bool
	mu          sync.RWMutex
	initialized bool
}

// NewLegalSegmenter 创建分词器并加载内置词典。初始化失败返回nil。
func NewLegalSegmenter() *LegalSegmenter {
	segmenter := &LegalSegmenter{
		userDict: make(map[string]bool),
	}

	if err := segmenter.init(); err != nil {
		return nil
	}

	return segmenter
}

func (seg *LegalSegmenter) init() error {
	seg.mu.Lock()
	defer seg.mu.Unlock()

	seg.gse.LoadDict()
	seg.loadCustomDict()

	seg.initialized = true
	return nil
}

// loadCustomDict 加载刑事司法领域词汇，避免专业词被拆散
func (seg *LegalSegmenter) loadCustomDict() {
	customWords := []string{
		// 罪名
		"盗窃罪", "抢劫罪", "抢夺罪", "诈骗罪", "故意伤害罪", "故意杀人罪",
		"寻衅滋事罪", "聚众斗殴罪", "交通肇事罪", "危险驾驶罪", "合同诈骗罪",
		"职务侵占罪", "挪用资金罪", "敲诈勒索罪", "非法拘禁罪", "掩饰隐瞒犯罪所得罪",
		"贩卖毒品罪", "容留他人吸毒罪", "开设赌场罪", "赌博罪",

		// 程序与量刑
		"刑事拘留", "取保候审", "监视居住", "逮捕", "起诉书", "公诉机关",
		"有期徒刑", "无期徒刑", "拘役", "管制", "缓刑", "罚金", "剥夺政治权利",
		"自首", "立功", "坦白", "累犯", "初犯", "从犯", "主犯", "未遂", "既遂",
		"如实供述", "取得谅解", "退赃退赔", "刑事责任",

		// 案情常用
		"作案工具", "赃款赃物", "被害人", "证人证言", "鉴定意见",
		"现场勘验", "辨认笔录", "监控录像", "人民币",
	}

	for _, word := range customWords {
		seg.userDict[word] = true
		seg.gse.AddToken(word, 1000, "n")
	}
}

// AddUserWord 追加自定义词汇
func (seg *LegalSegmenter) AddUserWord(word string) {
	seg.mu.Lock()
	defer seg.mu.Unlock()

	seg.userDict[word] = true
	seg.gse.AddToken(word, 500, "n")
}

// Cut 分词
func (seg *LegalSegmenter) Cut(text string) []string {
	if !seg.IsInitialized() {
		return []string{}
	}

	return seg.gse.Cut(text, true)
}

// Keywords 按词频提取topN关键词，过滤停用词、单字和纯数字。
// 频次相同按词序排序，保证结果确定。
func (seg *LegalSegmenter) Keywords(text string, topN int) []string {
	if !seg.IsInitialized() || text == "" || topN <= 0 {
		return []string{}
	}

	freq := make(map[string]int)
	for _, word := range seg.Cut(text) {
		word = strings.TrimSpace(word)
		if !seg.isKeywordCandidate(word) {
			continue
		}
		freq[word]++
	}

	words := make([]string, 0, len(freq))
	for word := range freq {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > topN {
		words = words[:topN]
	}
	return words
}

var numericWordRegex = regexp.MustCompile(`^[\d.．]+$`)

func (seg *LegalSegmenter) isKeywordCandidate(word string) bool {
	if len([]rune(word)) < 2 {
		return false
	}
	if legalStopWords[word] {
		return false
	}
	if numericWordRegex.MatchString(word) {
		return false
	}
	return true
}

// IsInitialized 检查是否已初始化
func (seg *LegalSegmenter) IsInitialized() bool {
	seg.mu.RLock()
	defer seg.mu.RUnlock()
	return seg.initialized
}

// legalStopWords 判决书文本中的高频虚词和套话成分
var legalStopWords = map[string]bool{
	"的": true, "了": true, "在": true, "是": true, "有": true,
	"和": true, "就": true, "不": true, "都": true, "一个": true,
	"上述": true, "其中": true, "以及": true, "对于": true, "由于": true,
	"经过": true, "进行": true, "处以": true, "本院": true, "被告": true,
	"被告人": true, "本案": true, "上午": true, "下午": true, "当日": true,
	"某某": true, "查明": true, "时许": true, "左右": true, "期间": true,
}
