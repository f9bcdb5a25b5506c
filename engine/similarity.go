package engine

import (
	"math"

	"github.com/rushteam/bookrec/index"
)

// SimilarityParts 返回两本书的相似度三元组 (collab, content, combined)。
//
// 分解对外暴露：归因阶段需要知道 combined 里协同与内容各占多少。
//   - a == b 时恒为 (1, 1, 1)。自相似从不经 Recommend 暴露（已读书目被排除在候选外），
//     但它是相似度函数契约的一部分，单独实现并测试。
//   - collab = co(a,b) / sqrt(count(a) * count(b))，无共现时为 0
//   - combined = CollabWeight*collab + ContentWeight*content
func (e *Engine) SimilarityParts(a, b string) (collab, content, combined float64) {
	if a == b {
		return 1, 1, 1
	}
	if co := e.idx.Cooccurrence[index.Pair{A: a, B: b}]; co > 0 {
		collab = float64(co) / math.Sqrt(float64(e.idx.BookCounts[a])*float64(e.idx.BookCounts[b]))
	}
	content = e.contentSimilarity(a, b)
	combined = e.cfg.CollabWeight*collab + e.cfg.ContentWeight*content
	return collab, content, combined
}

// contentSimilarity = TokenWeight*Jaccard + LevelWeight*levelSim。
// 空 token 集合的 Jaccard 记 0；任一水平无信号时 levelSim 记 0。
func (e *Engine) contentSimilarity(a, b string) float64 {
	tokensA := e.idx.BookTokens[a]
	tokensB := e.idx.BookTokens[b]

	tokenSim := 0.0
	if len(tokensA) > 0 && len(tokensB) > 0 {
		inter := 0
		for t := range tokensA {
			if _, ok := tokensB[t]; ok {
				inter++
			}
		}
		union := len(tokensA) + len(tokensB) - inter
		tokenSim = float64(inter) / float64(union)
	}

	levelSim := 0.0
	levelA := e.idx.BookLevels[a]
	levelB := e.idx.BookLevels[b]
	if levelA != 0 && levelB != 0 {
		levelSim = math.Max(0, 1-math.Abs(levelA-levelB)/4)
	}

	return e.cfg.TokenWeight*tokenSim + e.cfg.LevelWeight*levelSim
}
