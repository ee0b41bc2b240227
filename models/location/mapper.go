package location

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// courtSuffixes 法院名称尾部的机构类型后缀，长后缀优先剥离
var courtSuffixes = []string{"人民法院", "派出法庭", "法院", "法庭"}

// Mapper 把(所属地区, 法院名称)映射为区县级行政区划代码。
// 索引在构造时一次建好，之后只读，Map可被任意并发调用。
// 同一(region, court)输入的结果被无限期缓存。
type Mapper struct {
	districts []District
	index     map[string][]*District
	byCode    map[string]*District

	mu   sync.RWMutex
	memo map[string]string
}

// NewMapper 从行政区划CSV构造映射器。文件缺失或损坏时返回错误，
// 同时返回一个空索引的可用映射器，所有查询得到空串。
func NewMapper(csvPath string) (*Mapper, error) {
	m := &Mapper{
		index:  make(map[string][]*District),
		byCode: make(map[string]*District),
		memo:   make(map[string]string),
	}

	districts, err := LoadDistricts(csvPath)
	if err != nil {
		return m, err
	}
	m.districts = districts
	m.buildIndex()
	return m, nil
}

// NewMapperFromDistricts 直接用内存中的区划表构造映射器
func NewMapperFromDistricts(districts []District) *Mapper {
	m := &Mapper{
		districts: districts,
		index:     make(map[string][]*District),
		byCode:    make(map[string]*District),
		memo:      make(map[string]string),
	}
	m.buildIndex()
	return m
}

// buildIndex 为每个区县建立多键索引：全名、简称、市+全名、简称市+全名。
// 多键让"永昌县"、"永昌"、"金昌市永昌县"都能命中同一条记录。
func (m *Mapper) buildIndex() {
	for i := range m.districts {
		d := &m.districts[i]
		m.byCode[d.AdCode] = d

		m.addKey(d.Name, d)
		if short := ShortName(d.Name); short != "" {
			m.addKey(short, d)
		}
		if d.City != "" {
			m.addKey(d.City+d.Name, d)
			if shortCity := ShortName(d.City); shortCity != "" {
				m.addKey(shortCity+d.Name, d)
			}
		}
	}
}

func (m *Mapper) addKey(key string, d *District) {
	for _, existing := range m.index[key] {
		if existing == d {
			return
		}
	}
	m.index[key] = append(m.index[key], d)
}

// Map 返回区县级代码，无法确定时返回空串。
// region是自由文本的所属地区，court是法院全称，两个信号交叉校验。
func (m *Mapper) Map(region, court string) string {
	region = normalizeInput(region)
	court = normalizeInput(court)

	key := region + "\x00" + court

	m.mu.RLock()
	if code, ok := m.memo[key]; ok {
		m.mu.RUnlock()
		return code
	}
	m.mu.RUnlock()

	code := m.resolve(region, court)

	m.mu.Lock()
	m.memo[key] = code
	m.mu.Unlock()
	return code
}

func (m *Mapper) resolve(region, court string) string {
	base := stripCourtSuffix(court)

	candidates := m.lookupByPrefix(base)
	if len(candidates) == 0 {
		candidates = m.lookupByContainment(base)
	}
	if len(candidates) == 0 && region != "" {
		candidates = m.index[region]
	}
	if len(candidates) == 0 {
		return ""
	}

	var filtered []*District
	for _, d := range candidates {
		if IsCountyLevel(d.AdCode) {
			filtered = append(filtered, d)
		}
	}
	if region != "" {
		filtered = filterByParent(filtered, region)
	}
	if len(filtered) == 0 {
		return ""
	}

	// 名称更长的区划更具体，优先返回
	best := filtered[0]
	for _, d := range filtered[1:] {
		if utf8.RuneCountInString(d.Name) > utf8.RuneCountInString(best.Name) {
			best = d
		}
	}
	for _, d := range filtered {
		if d.AdCode != best.AdCode && utf8.RuneCountInString(d.Name) == utf8.RuneCountInString(best.Name) {
			return ""
		}
	}
	return best.AdCode
}

// lookupByPrefix 从长到短尝试base的前缀作为索引键，取首个命中
func (m *Mapper) lookupByPrefix(base string) []*District {
	runes := []rune(base)
	for end := len(runes); end >= 2; end-- {
		if districts, ok := m.index[string(runes[:end])]; ok {
			return districts
		}
	}
	return nil
}

// lookupByContainment 在全部索引键里找被base包含的最长键
func (m *Mapper) lookupByContainment(base string) []*District {
	if base == "" {
		return nil
	}
	var bestKey string
	for key := range m.index {
		if !strings.Contains(base, key) {
			continue
		}
		if utf8.RuneCountInString(key) > utf8.RuneCountInString(bestKey) {
			bestKey = key
		}
	}
	if bestKey == "" {
		return nil
	}
	return m.index[bestKey]
}

// filterByParent 用region校验候选区划的上级链。双向子串判断：
// region可能比上级名更细也可能更粗。只要有候选的上级与region
// 交叉匹配就只保留这些候选；一个都不匹配时，region比区划名更长
// 说明它指向别处，候选视为矛盾丢弃，否则region可能只是区划名
// 本身，不构成反证，候选保留。
func filterByParent(candidates []*District, region string) []*District {
	var matched []*District
	for _, d := range candidates {
		if parentMatches(d, region) {
			matched = append(matched, d)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	var kept []*District
	for _, d := range candidates {
		if utf8.RuneCountInString(region) <= utf8.RuneCountInString(d.Name) {
			kept = append(kept, d)
		}
	}
	return kept
}

func parentMatches(d *District, region string) bool {
	for _, parent := range []string{d.City, d.Province} {
		if parent == "" {
			continue
		}
		if strings.Contains(region, parent) || strings.Contains(parent, region) {
			return true
		}
	}
	return false
}

// NameOf 按代码查区划名，未知代码返回空串
func (m *Mapper) NameOf(adcode string) string {
	if d, ok := m.byCode[adcode]; ok {
		return d.Name
	}
	return ""
}

// ProvinceOf 按代码查省级名。直辖市区县返回City（即直辖市名）。
func (m *Mapper) ProvinceOf(adcode string) string {
	d, ok := m.byCode[adcode]
	if !ok {
		return ""
	}
	if d.Province != "" {
		return d.Province
	}
	return d.City
}

// Size 索引中的区县数量
func (m *Mapper) Size() int {
	return len(m.districts)
}

func stripCourtSuffix(court string) string {
	base := court
	for changed := true; changed; {
		changed = false
		for _, suffix := range courtSuffixes {
			if strings.HasSuffix(base, suffix) {
				base = strings.TrimSuffix(base, suffix)
				changed = true
			}
		}
	}
	return base
}

// normalizeInput 清理批处理数据中常见的占位值
func normalizeInput(s string) string {
	s = strings.TrimSpace(s)
	if s == "nan" || s == "NaN" || s == "None" || s == "null" {
		return ""
	}
	return s
}
