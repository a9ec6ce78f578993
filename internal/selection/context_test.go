package selection

import "testing"

func TestContextFilter(t *testing.T) {
	f := NewContextFilter([]string{"passage-a", "passage-b"})
	if !f.Active() {
		t.Fatal("expected active filter")
	}
	if f.Allows("passage-a") {
		t.Error("passage-a should be rejected")
	}
	if !f.Allows("passage-c") {
		t.Error("passage-c should be allowed")
	}

	contexts := []string{"passage-a", "passage-b", "passage-c"}
	pos, ok := f.FirstAllowed([]int{1, 0, 2}, contexts)
	if !ok || pos != 2 {
		t.Errorf("FirstAllowed = (%d, %v), want (2, true)", pos, ok)
	}

	if _, ok := f.FirstAllowed([]int{0, 1}, contexts); ok {
		t.Error("expected no allowed candidate")
	}
}

func TestContextFilter_Empty(t *testing.T) {
	f := NewContextFilter(nil)
	if f.Active() {
		t.Error("empty filter should be inactive")
	}
	if !f.Allows("") {
		t.Error("empty filter should allow everything")
	}
}
