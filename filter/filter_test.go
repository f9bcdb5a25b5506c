package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/match"
)

func testBooks() []*core.Book {
	return []*core.Book{
		{ID: "b1", Title: "Dragon Keep", Genre: "Fantasy", Language: "English", Availability: "Available"},
		{ID: "b2", Title: "Presidents", Genre: "Biography", Language: "English", Availability: "Checked Out"},
		{ID: "b3", Title: "La Casa", Genre: "Fantasy", Language: "Spanish", Availability: "Available"},
	}
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }

func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Book) (bool, error) {
	return true, errors.New("boom")
}

func TestApplyKernelFilter(t *testing.T) {
	ctx := context.Background()

	got := Apply(ctx, nil, testBooks(), &KernelFilter{
		Filters: match.Filters{Availability: "Available"},
	})

	if len(got) != 2 {
		t.Fatalf("Apply returned %d books, want 2", len(got))
	}
	if got[0].ID != "b1" || got[1].ID != "b3" {
		t.Errorf("Apply kept %s/%s, want b1/b3", got[0].ID, got[1].ID)
	}
}

func TestApplyMultipleFilters(t *testing.T) {
	ctx := context.Background()

	got := Apply(ctx, nil, testBooks(),
		&KernelFilter{Filters: match.Filters{Availability: "Available"}},
		&KernelFilter{Filters: match.Filters{Language: "English"}},
	)

	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("Apply = %v, want [b1]", got)
	}
}

func TestApplyFailingFilterKeepsBook(t *testing.T) {
	ctx := context.Background()

	// 出错的过滤器被跳过，书保留
	got := Apply(ctx, nil, testBooks(), failingFilter{})
	if len(got) != len(testBooks()) {
		t.Errorf("Apply with failing filter kept %d books, want %d", len(got), len(testBooks()))
	}
}

func TestApplyNoFilters(t *testing.T) {
	books := testBooks()
	if got := Apply(context.Background(), nil, books); len(got) != len(books) {
		t.Errorf("Apply without filters changed the list")
	}
}

func TestRuleFilter(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{StudentID: "u1", Scene: "chat"}

	tests := []struct {
		name string
		expr string
		want []string
	}{
		{
			name: "filter by genre",
			expr: `book.genre == "Biography"`,
			want: []string{"b1", "b3"},
		},
		{
			name: "filter unavailable in chat scene",
			expr: `!book.available && rctx.scene == "chat"`,
			want: []string{"b1", "b3"},
		},
		{
			name: "empty expression keeps all",
			expr: "",
			want: []string{"b1", "b2", "b3"},
		},
		{
			name: "no match keeps all",
			expr: `book.genre == "Horror"`,
			want: []string{"b1", "b2", "b3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(ctx, rctx, testBooks(), &RuleFilter{Expr: tt.expr})
			if len(got) != len(tt.want) {
				t.Fatalf("Apply = %d books, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestRuleFilterBadExpression(t *testing.T) {
	f := &RuleFilter{Expr: "book.genre =="}
	_, err := f.ShouldFilter(context.Background(), nil, testBooks()[0])
	if err == nil {
		t.Error("ShouldFilter(bad expr) error = nil, want compile error")
	}
}

func TestSearch(t *testing.T) {
	books := []*core.Book{
		{ID: "b1", Title: "Dragon Keep", Genre: "Fantasy", Keywords: "dragons, castles", Availability: "Available"},
		{ID: "b2", Title: "Dragon Quest", Genre: "Fantasy", Keywords: "dragons, quests, maps", Availability: "Available"},
		{ID: "b3", Title: "Presidents", Genre: "Biography", Availability: "Checked Out"},
	}

	got := Search(books, "dragon quest", match.Filters{Availability: "Available"}, match.DefaultOptions())

	if len(got) != 2 {
		t.Fatalf("Search returned %d hits, want 2 (b3 hard-rejected)", len(got))
	}
	// b2 命中 dragon+quest 两词，排在 b1 前
	if got[0].Book.ID != "b2" || got[1].Book.ID != "b1" {
		t.Errorf("Search order = %s, %s, want b2, b1", got[0].Book.ID, got[1].Book.ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %v <= %v", got[0].Score, got[1].Score)
	}
}

func TestSearchTiesKeepInputOrder(t *testing.T) {
	books := []*core.Book{
		{ID: "b1", Keywords: "dragons"},
		{ID: "b2", Keywords: "dragons"},
	}

	got := Search(books, "dragons", match.Filters{}, match.DefaultOptions())
	if len(got) != 2 || got[0].Book.ID != "b1" || got[1].Book.ID != "b2" {
		t.Errorf("tie order = %v, want input order b1, b2", got)
	}
}
