package selection

import "testing"

func TestSearchOrder(t *testing.T) {
	tests := []struct {
		prev    Category
		correct bool
		want    [3]Category
	}{
		{CategoryEasy, true, [3]Category{CategoryMedium, CategoryDifficult, CategoryEasy}},
		{CategoryEasy, false, [3]Category{CategoryEasy, CategoryMedium, CategoryDifficult}},
		{CategoryMedium, true, [3]Category{CategoryDifficult, CategoryMedium, CategoryEasy}},
		{CategoryMedium, false, [3]Category{CategoryEasy, CategoryMedium, CategoryDifficult}},
		{CategoryDifficult, true, [3]Category{CategoryDifficult, CategoryMedium, CategoryEasy}},
		{CategoryDifficult, false, [3]Category{CategoryMedium, CategoryEasy, CategoryDifficult}},
	}

	for _, tt := range tests {
		if got := SearchOrder(tt.prev, tt.correct); got != tt.want {
			t.Errorf("SearchOrder(%s, %v) = %v, want %v", tt.prev, tt.correct, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %q", c, got)
		}
	}
	if _, err := ParseCategory("hard"); err == nil {
		t.Error("expected error for unknown category")
	}
}
