package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/dsl"
)

// RuleFilter 是 CEL 规则过滤器：表达式求值为 true 的书被移除。
// 空表达式不过滤任何书。
//
// 示例：
//   - `book.genre == "Horror"` → 移除恐怖类
//   - `!book.available && rctx.scene == "chat"` → 聊天场景只留可借书
type RuleFilter struct {
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	book *core.Book,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(book, nil, rctx).Evaluate(f.Expr)
}
