package textutil

import (
	"testing"
	"time"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "comma separated",
			text: "dragons, magic, friendship",
			want: []string{"dragons", "magic", "friendship"},
		},
		{
			name: "mixed separators",
			text: "Space/Robots|Adventure & Humor",
			want: []string{"space", "robots", "adventure", "humor"},
		},
		{
			name: "dedup and lowercase",
			text: "Magic, magic, MAGIC",
			want: []string{"magic"},
		},
		{
			name: "empty parts dropped",
			text: ", , dragons,,",
			want: []string{"dragons"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for _, token := range tt.want {
				if _, ok := got[token]; !ok {
					t.Errorf("Tokenize(%q) missing token %q", tt.text, token)
				}
			}
		})
	}
}

func TestTokenizeFields(t *testing.T) {
	got := TokenizeFields("Fantasy", "", "dragons, magic")
	want := []string{"fantasy", "dragons", "magic"}
	if len(got) != len(want) {
		t.Fatalf("TokenizeFields = %v, want tokens %v", got, want)
	}
	for _, token := range want {
		if _, ok := got[token]; !ok {
			t.Errorf("TokenizeFields missing token %q", token)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"The Lost Hero!", "the lost hero"},
		{"Sci-Fi & Space", "sci-fi   space"},
		{"", ""},
		{"  Magic  ", "magic"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.text); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  float64
	}{
		{"3-5", 4.0},
		{"3–5", 4.0}, // 长横线
		{"4", 4.0},
		{"2.5-3.5", 3.0},
		{"", 0.0},
		{"advanced", 0.0},
		{"3-advanced", 0.0},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.level); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-03-15")
	if !ok {
		t.Fatal("ParseDate(2024-03-15) not ok")
	}
	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC); !d.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", d, want)
	}

	for _, bad := range []string{"", "03/15/2024", "2024-3-15", "not a date"} {
		if _, ok := ParseDate(bad); ok {
			t.Errorf("ParseDate(%q) ok, want failure", bad)
		}
	}
}

func TestParseInt(t *testing.T) {
	if n, ok := ParseInt(" 5 "); !ok || n != 5 {
		t.Errorf("ParseInt(\" 5 \") = %d, %v", n, ok)
	}
	if _, ok := ParseInt("fifth"); ok {
		t.Error("ParseInt(fifth) ok, want failure")
	}
	if _, ok := ParseInt(""); ok {
		t.Error("ParseInt(\"\") ok, want failure")
	}
}
