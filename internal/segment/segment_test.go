package segment

import (
	"reflect"
	"testing"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Span
	}{
		{name: "empty", text: "", want: []Span{}},
		{name: "single", text: "cat", want: []Span{{0, 3}}},
		{name: "two", text: "ab cd", want: []Span{{0, 2}, {3, 5}}},
		{name: "leading and trailing", text: "  ab  ", want: []Span{{2, 4}}},
		{name: "tabs", text: "a\tb", want: []Span{{0, 1}, {2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words([]rune(tt.text))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Words(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	words := Words([]rune("ab cd  "))
	if got := At(words, 1); got != (Span{0, 2}) {
		t.Fatalf("expected first word, got %v", got)
	}
	if got := At(words, 2); got != (Span{3, 5}) {
		t.Fatalf("expected next word for space, got %v", got)
	}
	if got := At(words, 6); got != (Span{6, 6}) {
		t.Fatalf("expected empty span after last word, got %v", got)
	}
}

func TestWordStart(t *testing.T) {
	text := []rune("ab cd")
	tests := []struct {
		pos  int
		want int
	}{
		{pos: 0, want: 0},
		{pos: 1, want: 0},
		{pos: 2, want: 0},
		{pos: 3, want: 0},
		{pos: 4, want: 3},
		{pos: 5, want: 3},
	}
	for _, tt := range tests {
		if got := WordStart(text, tt.pos); got != tt.want {
			t.Fatalf("WordStart(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
	for _, sep := range []string{"\t", "\u00a0"} {
		other := []rune("ab" + sep + "cd")
		if got := WordStart(other, 5); got != 3 {
			t.Fatalf("WordStart(%q, 5) = %d, want 3", string(other), got)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(" the quick  fox "); got != 3 {
		t.Fatalf("expected 3 words, got %d", got)
	}
	if got := Count(""); got != 0 {
		t.Fatalf("expected 0 words, got %d", got)
	}
}
