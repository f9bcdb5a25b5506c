// Package index 把目录/读者/借阅快照一次性构建成不可变的交互索引。
//
// 设计要点：
//   - 所有派生表都是输入集合的纯函数：相同输入重建，结果逐字节一致（排序可复现的前提）
//   - 构建完成后只读，可被任意多个 goroutine 并发查询，无锁
//   - 数据变更不原地修改，由外层 rebuild 新索引后原子替换（见 engine.Holder）
package index

import (
	"math"
	"strings"
	"time"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/textutil"
)

// 借阅权重参数。基准 1.0，行为信号加减，下限兜底。
const (
	baseLoanWeight          = 1.0
	renewalBonus            = 0.25
	positiveFeedbackBonus   = 0.35
	negativeFeedbackPenalty = 0.2
	recencyBonus            = 0.3
	recencyDecayDays        = 180.0
	minLoanWeight           = 0.2
)

// 反馈词典：在小写反馈文本上做子串命中，正负独立判定、可同时生效。
var (
	positiveFeedbackWords = []string{"love", "loved", "enjoyed", "asked", "favorite", "great", "cool"}
	negativeFeedbackWords = []string{"not", "dislike", "boring", "hard", "challenging"}
)

// Pair 是书目无序对的存储键。(a,b) 与 (b,a) 各存一份，数值相同。
type Pair struct {
	A, B string
}

// LoanKey 是借阅权重的查询键。同一 (student, book) 多次借阅时，后一条覆盖前一条。
type LoanKey struct {
	StudentID, BookID string
}

// Index 是只读交互索引。字段导出仅为同模块内查询，构建后不得修改。
type Index struct {
	Books    map[string]*core.Book
	Students map[string]*core.Student

	// BookOrder 固定目录遍历顺序（构造传入的切片顺序）。
	// 排序与 similar_to 的并列裁决都以它为准，这是对外可观察的顺序保证。
	BookOrder []string

	// StudentBooks 读者 → 借过的书目 ID 列表（保留重复与先后）。
	StudentBooks map[string][]string

	// BookCounts 书目 → 有效借阅次数。
	BookCounts map[string]int

	// Cooccurrence 无序书目对 → 同时借过两本的去重读者数。
	Cooccurrence map[Pair]int

	// BookTokens / StudentTokens 描述字段的归一化 token 集合。
	BookTokens    map[string]map[string]struct{}
	StudentTokens map[string]map[string]struct{}

	// BookLevels 书目 → 阅读水平中点；解析失败为 0（无信号）。
	BookLevels map[string]float64

	// LoanWeights (读者, 书目) → 借阅权重，≥ minLoanWeight。
	LoanWeights map[LoanKey]float64

	// MaxCheckoutDate 全体借阅中最晚的可解析日期；没有则为零值。
	MaxCheckoutDate time.Time
}

// Build 构建交互索引。
// 悬空借阅（读者或书目不在快照中）静默丢弃；日期/水平解析失败降级为中性默认值，从不报错。
func Build(books []*core.Book, students []*core.Student, loans []*core.Loan) *Index {
	ix := &Index{
		Books:         make(map[string]*core.Book, len(books)),
		Students:      make(map[string]*core.Student, len(students)),
		BookOrder:     make([]string, 0, len(books)),
		StudentBooks:  make(map[string][]string),
		BookCounts:    make(map[string]int),
		Cooccurrence:  make(map[Pair]int),
		BookTokens:    make(map[string]map[string]struct{}, len(books)),
		StudentTokens: make(map[string]map[string]struct{}, len(students)),
		BookLevels:    make(map[string]float64, len(books)),
		LoanWeights:   make(map[LoanKey]float64, len(loans)),
	}

	for _, b := range books {
		if b == nil || b.ID == "" {
			continue
		}
		if _, ok := ix.Books[b.ID]; !ok {
			ix.BookOrder = append(ix.BookOrder, b.ID)
		}
		ix.Books[b.ID] = b
		ix.BookTokens[b.ID] = textutil.TokenizeFields(
			b.Genre, b.Keywords, b.SubjectTags, b.Series, b.Author, b.Language, b.Audience,
		)
		ix.BookLevels[b.ID] = textutil.ParseLevel(b.ReadingLevel)
	}

	for _, s := range students {
		if s == nil || s.ID == "" {
			continue
		}
		ix.Students[s.ID] = s
		ix.StudentTokens[s.ID] = textutil.TokenizeFields(s.Interests, s.PreferredGenres)
	}

	// 最晚日期取全体借阅（含悬空行）：权重的 recency 基准不受目录裁剪影响。
	for _, l := range loans {
		if d, ok := textutil.ParseDate(l.CheckoutDate); ok {
			if ix.MaxCheckoutDate.IsZero() || d.After(ix.MaxCheckoutDate) {
				ix.MaxCheckoutDate = d
			}
		}
	}

	for _, l := range loans {
		if l == nil {
			continue
		}
		if _, ok := ix.Books[l.BookID]; !ok {
			continue
		}
		if _, ok := ix.Students[l.StudentID]; !ok {
			continue
		}
		ix.StudentBooks[l.StudentID] = append(ix.StudentBooks[l.StudentID], l.BookID)
		ix.BookCounts[l.BookID]++
		ix.LoanWeights[LoanKey{l.StudentID, l.BookID}] = ix.loanWeight(l)
	}

	// 共现：对每个读者先按首见顺序去重，再对去重列表里的每个无序对双向 +1。
	// 纯计数可交换，遍历 map 的随机顺序不影响结果。
	for _, history := range ix.StudentBooks {
		unique := uniqueInOrder(history)
		for i := 0; i < len(unique); i++ {
			for j := i + 1; j < len(unique); j++ {
				ix.Cooccurrence[Pair{unique[i], unique[j]}]++
				ix.Cooccurrence[Pair{unique[j], unique[i]}]++
			}
		}
	}

	return ix
}

func (ix *Index) loanWeight(l *core.Loan) float64 {
	weight := baseLoanWeight
	if l.Renewals > 0 {
		weight += renewalBonus * float64(l.Renewals)
	}

	feedback := strings.ToLower(l.Feedback)
	if feedback != "" {
		if containsAny(feedback, positiveFeedbackWords) {
			weight += positiveFeedbackBonus
		}
		if containsAny(feedback, negativeFeedbackWords) {
			weight -= negativeFeedbackPenalty
		}
	}

	if d, ok := textutil.ParseDate(l.CheckoutDate); ok && !ix.MaxCheckoutDate.IsZero() {
		deltaDays := ix.MaxCheckoutDate.Sub(d).Hours() / 24
		recency := 1.0
		if deltaDays >= 0 {
			recency = math.Exp(-deltaDays / recencyDecayDays)
		}
		weight += recencyBonus * recency
	}

	return math.Max(minLoanWeight, weight)
}

// LoanWeight 查询 (读者, 书目) 的借阅权重；未索引的组合返回 1.0。
func (ix *Index) LoanWeight(studentID, bookID string) float64 {
	if w, ok := ix.LoanWeights[LoanKey{studentID, bookID}]; ok {
		return w
	}
	return 1.0
}

// SeenBooks 返回读者借过的书目，按首见顺序去重。
// 这份顺序参与 similar_to 的并列裁决，调用方不得重排。
func (ix *Index) SeenBooks(studentID string) []string {
	return uniqueInOrder(ix.StudentBooks[studentID])
}

func uniqueInOrder(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
