package engine

import (
	"math"
	"strings"

	"github.com/rushteam/bookrec/pkg/textutil"
)

// 画像匹配参数。各加成独立封顶，总分无额外上限。
const (
	overlapStep        = 0.2
	overlapCap         = 0.6
	genreBonus         = 0.2
	levelFitBase       = 0.4
	levelFitSlope      = 0.1
	audienceBonus      = 0.2
	upperElementaryCap = 5 // 年级 <= 5 命中小学高段受众
	middleSchoolFloor  = 6 // 年级 >= 6 命中初中受众
)

// 受众字面值与数据源一致，按精确字符串比较（与原始档案口径保持一致）。
const (
	audienceUpperElementary = "Upper Elementary"
	audienceMiddleSchool    = "Middle School"
)

// ProfileFit 计算读者档案与候选书目的匹配分。
//
// 组成：
//   - token 重合：min(0.6, 0.2 * overlap)
//   - 类型直配：书目 genre 的小写形式出现在读者 token 集合中 +0.2
//   - 水平邻近：双方水平都有信号时 max(0, 0.4 - 0.1*|Δ|)
//   - 受众年龄段：年级可解析且命中受众桶 +0.2；年级解析失败只关闭此项，从不报错
//
// 读者或书目未知时返回 0。
func (e *Engine) ProfileFit(studentID, bookID string) float64 {
	student := e.idx.Students[studentID]
	book := e.idx.Books[bookID]
	if student == nil || book == nil {
		return 0
	}

	tokens := e.idx.StudentTokens[studentID]
	bookTokens := e.idx.BookTokens[bookID]

	score := 0.0
	if len(tokens) > 0 && len(bookTokens) > 0 {
		overlap := 0
		for t := range tokens {
			if _, ok := bookTokens[t]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			score += math.Min(overlapCap, float64(overlap)*overlapStep)
		}
	}

	if book.Genre != "" {
		if _, ok := tokens[strings.ToLower(book.Genre)]; ok {
			score += genreBonus
		}
	}

	studentLevel := textutil.ParseLevel(student.ReadingLevel)
	bookLevel := e.idx.BookLevels[bookID]
	if studentLevel != 0 && bookLevel != 0 {
		score += math.Max(0, levelFitBase-math.Abs(studentLevel-bookLevel)*levelFitSlope)
	}

	if grade, ok := textutil.ParseInt(student.Grade); ok && grade != 0 {
		if book.Audience == audienceUpperElementary && grade <= upperElementaryCap {
			score += audienceBonus
		}
		if book.Audience == audienceMiddleSchool && grade >= middleSchoolFloor {
			score += audienceBonus
		}
	}

	return score
}
