// Package textutil 统一文本归一化约定：索引构建与过滤/搜索内核共用同一套分词规则。
package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayout 是借阅日期的唯一可解析格式。
const dateLayout = "2006-01-02"

var nonSearchable = regexp.MustCompile(`[^a-z0-9\s-]`)

// Tokenize 把自由文本切成归一化小写 token 集合。
// 分隔符混用是数据源常态：, / | & 一律折叠成单一分隔符再切分，去空白、丢空串。
func Tokenize(text string) map[string]struct{} {
	normalized := strings.NewReplacer(",", ";", "/", ";", "|", ";", "&", ";").Replace(text)
	tokens := make(map[string]struct{})
	for _, part := range strings.Split(normalized, ";") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens[token] = struct{}{}
	}
	return tokens
}

// TokenizeFields 先以 ';' 拼接非空字段再 Tokenize，等价于对每个字段分别分词取并集。
func TokenizeFields(fields ...string) map[string]struct{} {
	nonEmpty := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return Tokenize(strings.Join(nonEmpty, ";"))
}

// Normalize 把文本压成可做子串匹配的检索形态：小写、去掉字母数字/空白/连字符以外的字符。
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(nonSearchable.ReplaceAllString(strings.ToLower(text), " "))
}

// ParseLevel 解析阅读水平区间串（例如 "3-5"）为数值中点。
// 长横线按短横线处理；任何解析失败返回 0.0，语义为“无信号”，从不报错。
func ParseLevel(level string) float64 {
	if level == "" {
		return 0.0
	}
	var nums []float64
	for _, part := range strings.Split(strings.ReplaceAll(level, "–", "-"), "-") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0.0
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}

// ParseDate 解析 YYYY-MM-DD 日期；失败时返回 (zero, false)，视为缺失而不是错误。
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseInt 解析整数样式的字符串（年级）；失败返回 (0, false)。
func ParseInt(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return n, true
}
