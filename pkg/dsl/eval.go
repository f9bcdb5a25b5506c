// Package dsl 提供基于 CEL 的规则表达式求值，供外层过滤/检索调用点做策略驱动。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/bookrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("book", cel.DynType),
		cel.Variable("rec", cel.DynType),
		cel.Variable("signals", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 对一本书（可选附带其推荐结果）求值 CEL 布尔表达式。
//
// 表达式语法（CEL 标准语法）：
//   - 书目字段：book.genre == "Fantasy" / book.available
//   - 推荐结果：rec.score > 0.5 / rec.driver == "profile_fit"
//   - 信号分解：signals.history_similarity > signals.content_similarity
//   - 标签：label.source.contains("trending")
//   - 请求上下文：rctx.scene == "chat"
//
// 访问不存在的 key 会报错，存在性判断请用 label.key != null。
type Eval struct {
	book *core.Book
	rec  *core.Recommendation
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建求值器。rec / rctx 允许为 nil，对应变量降级为空 map。
func NewEval(book *core.Book, rec *core.Recommendation, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{book: book, rec: rec, rctx: rctx, env: env}
}

// Evaluate 编译并执行表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env unavailable")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
func (e *Eval) buildInput() map[string]any {
	book := map[string]any{}
	if e.book != nil {
		book = map[string]any{
			"id":            e.book.ID,
			"title":         e.book.Title,
			"author":        e.book.Author,
			"genre":         e.book.Genre,
			"reading_level": e.book.ReadingLevel,
			"series":        e.book.Series,
			"language":      e.book.Language,
			"audience":      e.book.Audience,
			"format":        e.book.Format,
			"availability":  e.book.Availability,
			"available":     e.book.Available(),
		}
	}

	rec := map[string]any{}
	signals := map[string]float64{}
	label := map[string]any{}
	if e.rec != nil {
		signals = e.rec.Signals.Map()
		rec = map[string]any{
			"book_id":    e.rec.BookID,
			"score":      e.rec.Score,
			"similar_to": e.rec.SimilarTo,
			"driver":     e.rec.Driver,
			"signals":    signals,
		}
		// label.source 直接取 Value，与旧表达式习惯兼容
		for k, v := range e.rec.Labels {
			label[k] = v.Value
		}
	}

	rctx := map[string]any{}
	if e.rctx != nil {
		rctx = map[string]any{
			"student_id": e.rctx.StudentID,
			"scene":      e.rctx.Scene,
			"params":     e.rctx.Params,
		}
	}

	return map[string]any{
		"book":    book,
		"rec":     rec,
		"signals": signals,
		"label":   label,
		"rctx":    rctx,
	}
}
