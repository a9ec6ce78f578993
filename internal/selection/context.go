package selection

// ContextFilter rejects items whose context tag was seen recently.
type ContextFilter struct {
	recent map[string]struct{}
}

// NewContextFilter builds a filter from the recently seen context tags.
func NewContextFilter(recent []string) ContextFilter {
	f := ContextFilter{recent: make(map[string]struct{}, len(recent))}
	for _, tag := range recent {
		f.recent[tag] = struct{}{}
	}
	return f
}

// Active reports whether the filter has anything to avoid.
func (f ContextFilter) Active() bool {
	return len(f.recent) > 0
}

// Allows reports whether tag was not seen recently.
func (f ContextFilter) Allows(tag string) bool {
	_, seen := f.recent[tag]
	return !seen
}

// FirstAllowed returns the position in candidates of the first item whose
// context is allowed. contexts is indexed by item index; items past its end
// have an empty context.
func (f ContextFilter) FirstAllowed(candidates []int, contexts []string) (int, bool) {
	for pos, idx := range candidates {
		if f.Allows(contextAt(contexts, idx)) {
			return pos, true
		}
	}
	return 0, false
}

func contextAt(contexts []string, i int) string {
	if i < len(contexts) {
		return contexts[i]
	}
	return ""
}
