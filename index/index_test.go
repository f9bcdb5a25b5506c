package index

import (
	"math"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func book(id, genre, keywords, level string) *core.Book {
	return &core.Book{ID: id, Genre: genre, Keywords: keywords, ReadingLevel: level}
}

func TestBuildBookOrder(t *testing.T) {
	books := []*core.Book{
		book("b1", "Fantasy", "dragons", "3-5"),
		book("b2", "Sci-Fi", "space", "4-6"),
		book("b1", "Fantasy", "dragons", "3-5"), // 重复 ID，保留首见位置
		nil,
		book("", "Fantasy", "", ""), // 空 ID 丢弃
		book("b3", "Mystery", "detective", ""),
	}
	ix := Build(books, nil, nil)

	want := []string{"b1", "b2", "b3"}
	if len(ix.BookOrder) != len(want) {
		t.Fatalf("BookOrder = %v, want %v", ix.BookOrder, want)
	}
	for i, id := range want {
		if ix.BookOrder[i] != id {
			t.Errorf("BookOrder[%d] = %q, want %q", i, ix.BookOrder[i], id)
		}
	}
}

func TestBuildDropsDanglingLoans(t *testing.T) {
	books := []*core.Book{book("b1", "Fantasy", "", "")}
	students := []*core.Student{{ID: "s1"}}
	loans := []*core.Loan{
		{StudentID: "s1", BookID: "b1", CheckoutDate: "2024-01-01"},
		{StudentID: "s1", BookID: "ghost", CheckoutDate: "2024-02-01"},  // 书目悬空
		{StudentID: "ghost", BookID: "b1", CheckoutDate: "2024-03-01"},  // 读者悬空
	}
	ix := Build(books, students, loans)

	if got := ix.BookCounts["b1"]; got != 1 {
		t.Errorf("BookCounts[b1] = %d, want 1", got)
	}
	if got := len(ix.StudentBooks["s1"]); got != 1 {
		t.Errorf("StudentBooks[s1] = %v, want 1 entry", ix.StudentBooks["s1"])
	}
	// 悬空行的日期仍参与 recency 基准
	if got := ix.MaxCheckoutDate.Format("2006-01-02"); got != "2024-03-01" {
		t.Errorf("MaxCheckoutDate = %s, want 2024-03-01", got)
	}
}

func TestBuildCooccurrenceSymmetric(t *testing.T) {
	books := []*core.Book{
		book("b1", "Fantasy", "", ""),
		book("b2", "Sci-Fi", "", ""),
		book("b3", "Mystery", "", ""),
	}
	students := []*core.Student{{ID: "s1"}, {ID: "s2"}}
	loans := []*core.Loan{
		{StudentID: "s1", BookID: "b1"},
		{StudentID: "s1", BookID: "b2"},
		{StudentID: "s1", BookID: "b1"}, // 同读者重复借阅不重复计对
		{StudentID: "s2", BookID: "b1"},
		{StudentID: "s2", BookID: "b2"},
		{StudentID: "s2", BookID: "b3"},
	}
	ix := Build(books, students, loans)

	if got := ix.Cooccurrence[Pair{"b1", "b2"}]; got != 2 {
		t.Errorf("co(b1,b2) = %d, want 2", got)
	}
	if got := ix.Cooccurrence[Pair{"b2", "b1"}]; got != 2 {
		t.Errorf("co(b2,b1) = %d, want 2", got)
	}
	if got := ix.Cooccurrence[Pair{"b2", "b3"}]; got != 1 {
		t.Errorf("co(b2,b3) = %d, want 1", got)
	}
	if got := ix.Cooccurrence[Pair{"b1", "b1"}]; got != 0 {
		t.Errorf("co(b1,b1) = %d, want 0", got)
	}
}

func TestLoanWeight(t *testing.T) {
	books := []*core.Book{
		book("b1", "Fantasy", "", ""),
		book("b2", "Sci-Fi", "", ""),
		book("b3", "Mystery", "", ""),
		book("b4", "Humor", "", ""),
		book("b5", "Poetry", "", ""),
		book("b6", "Drama", "", ""),
	}
	students := []*core.Student{{ID: "s1"}}
	// 最晚日期 2024-07-01，同日期借阅的 recency 恰为 1.0
	loans := []*core.Loan{
		{StudentID: "s1", BookID: "b1", CheckoutDate: "2024-07-01"},
		{StudentID: "s1", BookID: "b2", CheckoutDate: "2024-07-01", Renewals: 2},
		{StudentID: "s1", BookID: "b3", CheckoutDate: "2024-07-01", Feedback: "Loved it!"},
		{StudentID: "s1", BookID: "b4", CheckoutDate: "2024-07-01", Feedback: "not great"},
		{StudentID: "s1", BookID: "b5"},
		{StudentID: "s1", BookID: "b6", CheckoutDate: "2024-01-03"}, // 180 天前
	}
	ix := Build(books, students, loans)

	tests := []struct {
		name   string
		bookID string
		want   float64
	}{
		{"base plus full recency", "b1", 1.0 + 0.3},
		{"renewal bonus per renewal", "b2", 1.0 + 0.25*2 + 0.3},
		{"positive feedback", "b3", 1.0 + 0.35 + 0.3},
		{"positive and negative both hit", "b4", 1.0 + 0.35 - 0.2 + 0.3},
		{"missing date skips recency", "b5", 1.0},
		{"recency decays with age", "b6", 1.0 + 0.3*math.Exp(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.LoanWeight("s1", tt.bookID)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LoanWeight(s1, %s) = %v, want %v", tt.bookID, got, tt.want)
			}
			if got < 0.2 {
				t.Errorf("LoanWeight(s1, %s) = %v below floor", tt.bookID, got)
			}
		})
	}
}

func TestLoanWeightUnknownPairDefaultsToOne(t *testing.T) {
	ix := Build(nil, nil, nil)
	if got := ix.LoanWeight("s1", "b1"); got != 1.0 {
		t.Errorf("LoanWeight(unknown) = %v, want 1.0", got)
	}
}

func TestLoanWeightLastLoanWins(t *testing.T) {
	books := []*core.Book{book("b1", "Fantasy", "", "")}
	students := []*core.Student{{ID: "s1"}}
	loans := []*core.Loan{
		{StudentID: "s1", BookID: "b1", CheckoutDate: "2024-07-01", Renewals: 3},
		{StudentID: "s1", BookID: "b1", CheckoutDate: "2024-07-01"},
	}
	ix := Build(books, students, loans)

	if got, want := ix.LoanWeight("s1", "b1"), 1.3; math.Abs(got-want) > 1e-9 {
		t.Errorf("LoanWeight = %v, want %v (later loan overrides)", got, want)
	}
	if got := ix.BookCounts["b1"]; got != 2 {
		t.Errorf("BookCounts[b1] = %d, want 2 (every loan counts)", got)
	}
}

func TestSeenBooksFirstSeenOrder(t *testing.T) {
	books := []*core.Book{
		book("b1", "Fantasy", "", ""),
		book("b2", "Sci-Fi", "", ""),
	}
	students := []*core.Student{{ID: "s1"}}
	loans := []*core.Loan{
		{StudentID: "s1", BookID: "b2"},
		{StudentID: "s1", BookID: "b1"},
		{StudentID: "s1", BookID: "b2"},
	}
	ix := Build(books, students, loans)

	seen := ix.SeenBooks("s1")
	if len(seen) != 2 || seen[0] != "b2" || seen[1] != "b1" {
		t.Errorf("SeenBooks(s1) = %v, want [b2 b1]", seen)
	}
	if got := ix.SeenBooks("unknown"); got != nil {
		t.Errorf("SeenBooks(unknown) = %v, want nil", got)
	}
}

func TestBuildBookLevels(t *testing.T) {
	books := []*core.Book{
		book("b1", "", "", "3-5"),
		book("b2", "", "", "advanced"),
	}
	ix := Build(books, nil, nil)

	if got := ix.BookLevels["b1"]; got != 4.0 {
		t.Errorf("BookLevels[b1] = %v, want 4.0", got)
	}
	if got := ix.BookLevels["b2"]; got != 0.0 {
		t.Errorf("BookLevels[b2] = %v, want 0 (no signal)", got)
	}
}
