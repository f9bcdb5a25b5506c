// Package match 是通用的过滤/检索打分内核。
//
// 它与推荐链路无关：外层搜索、可借性查询、系列/作者检索等调用点各自带着
// 权重配置来用。与 index 共用同一套文本归一化约定（pkg/textutil），除此之外独立。
package match

import (
	"strings"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/textutil"
)

// DefaultSearchFields 是自由文本检索默认覆盖的书目字段。
var DefaultSearchFields = []string{
	"title", "author", "keywords", "subject_tags", "series", "audience", "format", "genre",
}

// Filters 是一次检索的结构化过滤条件；零值字段不参与判定。
type Filters struct {
	Availability string
	Language     string
	Genres       []string
	ReadingLevel string
}

// Options 是打分参数，全部由调用方配置，内核不写死任何权重。
type Options struct {
	// 各过滤维度命中时的加分；0 表示该维度不加分。
	ReadingLevelWeight float64
	LanguageWeight     float64
	GenreWeight        float64
	AvailabilityWeight float64

	// TokenWeight 每个自由文本 token 命中（子串匹配）的加分。
	TokenWeight float64

	// AvailabilityValue 是 AvailabilityWeight 加分所要求的流通状态。
	AvailabilityValue string

	// RequireFilters 为 true 时，availability/language/genre 过滤条件
	// 精确不匹配直接硬拒（返回 ok=false，"无分"而不是零分）。
	RequireFilters bool

	// SearchFields 指定参与子串匹配的字段；空用 DefaultSearchFields。
	SearchFields []string
}

// DefaultOptions 返回与多数检索调用点一致的默认参数。
func DefaultOptions() Options {
	return Options{
		TokenWeight:       1.0,
		AvailabilityValue: core.AvailabilityAvailable,
		RequireFilters:    true,
		SearchFields:      DefaultSearchFields,
	}
}

// Score 对单本书打检索匹配分。
// 返回 (score, true)，或在 RequireFilters 且硬过滤不匹配时返回 (0, false)。
func Score(book *core.Book, tokens []string, f Filters, opts Options) (float64, bool) {
	if book == nil {
		return 0, false
	}

	if opts.RequireFilters {
		if f.Availability != "" && book.Availability != f.Availability {
			return 0, false
		}
		if f.Language != "" && book.Language != f.Language {
			return 0, false
		}
		if len(f.Genres) > 0 && !containsString(f.Genres, book.Genre) {
			return 0, false
		}
	}

	score := 0.0
	if opts.ReadingLevelWeight != 0 && f.ReadingLevel != "" && book.ReadingLevel == f.ReadingLevel {
		score += opts.ReadingLevelWeight
	}
	if opts.LanguageWeight != 0 && f.Language != "" && book.Language == f.Language {
		score += opts.LanguageWeight
	}
	if opts.GenreWeight != 0 && len(f.Genres) > 0 && containsString(f.Genres, book.Genre) {
		score += opts.GenreWeight
	}
	if opts.AvailabilityWeight != 0 && book.Availability == opts.AvailabilityValue {
		score += opts.AvailabilityWeight
	}

	if opts.TokenWeight != 0 && len(tokens) > 0 {
		haystack := searchableText(book, opts.SearchFields)
		for _, token := range tokens {
			if token != "" && strings.Contains(haystack, token) {
				score += opts.TokenWeight
			}
		}
	}

	return score, true
}

// QueryTokens 把自由文本查询切成可匹配的归一化 token。
func QueryTokens(query string) []string {
	return strings.Fields(textutil.Normalize(query))
}

func searchableText(book *core.Book, fields []string) string {
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fieldValue(book, field))
	}
	return textutil.Normalize(strings.Join(parts, " "))
}

func fieldValue(book *core.Book, field string) string {
	switch field {
	case "title":
		return book.Title
	case "author":
		return book.Author
	case "keywords":
		return book.Keywords
	case "subject_tags":
		return book.SubjectTags
	case "series":
		return book.Series
	case "audience":
		return book.Audience
	case "format":
		return book.Format
	case "genre":
		return book.Genre
	case "language":
		return book.Language
	case "reading_level":
		return book.ReadingLevel
	}
	return ""
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
