package filter

import (
	"sort"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/match"
)

// ScoredBook 是一条搜索命中。
type ScoredBook struct {
	Book  *core.Book
	Score float64
}

// Search 对书目列表做自由文本 + 结构化过滤检索，按匹配分降序返回。
//
// 硬过滤不匹配的书直接丢弃（内核返回"无分"）；持平时保持输入列表顺序，
// 与引擎侧同一稳定排序纪律。
func Search(books []*core.Book, query string, f match.Filters, opts match.Options) []ScoredBook {
	tokens := match.QueryTokens(query)

	out := make([]ScoredBook, 0, len(books))
	for _, book := range books {
		score, ok := match.Score(book, tokens, f, opts)
		if !ok {
			continue
		}
		out = append(out, ScoredBook{Book: book, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
