package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Accuracy", "Correct"}
	rows := [][]string{
		{"a", "97.50%", "12"},
		{"ä", "8.00%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a      97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "ä       8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Card", "Score"}, [][]string{{"日本", "90"}, {"a", "5"}}, map[int]bool{1: true})
	if lines[1] != "日本    90" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a        5" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestFormatTableShowsSpace(t *testing.T) {
	lines := formatTable([]string{"Char"}, [][]string{{" "}}, nil)
	if lines[1] != "␣" {
		t.Fatalf("expected visible space, got %q", lines[1])
	}
}
