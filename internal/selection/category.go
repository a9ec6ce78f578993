// Package selection chooses the next item index from tiered probabilities,
// the learner's previous outcome and what they have already attempted.
package selection

import "fmt"

// Category is a difficulty tier derived from computed probabilities.
type Category string

const (
	CategoryEasy      Category = "easy"
	CategoryMedium    Category = "medium"
	CategoryDifficult Category = "difficult"
)

// Categories lists every tier in stratification order.
var Categories = [3]Category{CategoryEasy, CategoryMedium, CategoryDifficult}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryEasy, CategoryMedium, CategoryDifficult:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// SearchOrder returns the order in which tiers are searched for the next
// item, given the tier of the previous item and whether it was answered
// correctly.
func SearchOrder(prev Category, correct bool) [3]Category {
	switch prev {
	case CategoryEasy:
		if correct {
			return [3]Category{CategoryMedium, CategoryDifficult, CategoryEasy}
		}
		return [3]Category{CategoryEasy, CategoryMedium, CategoryDifficult}
	case CategoryMedium:
		if correct {
			return [3]Category{CategoryDifficult, CategoryMedium, CategoryEasy}
		}
		return [3]Category{CategoryEasy, CategoryMedium, CategoryDifficult}
	case CategoryDifficult:
		if correct {
			return [3]Category{CategoryDifficult, CategoryMedium, CategoryEasy}
		}
		return [3]Category{CategoryMedium, CategoryEasy, CategoryDifficult}
	}
	return Categories
}
