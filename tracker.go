package pqwriter

// rowTracker counts, per expected path, the fills of the row being assembled.
type rowTracker struct {
	expected []string
	pos      map[string]int
	counts   []int
	// ones is the number of paths filled exactly once.
	ones int
	// counted is set once the current row has been counted as complete.
	counted bool
}

func newRowTracker(expected []string) *rowTracker {
	t := &rowTracker{
		expected: expected,
		pos:      make(map[string]int, len(expected)),
		counts:   make([]int, len(expected)),
	}
	for i, p := range expected {
		t.pos[p] = i
	}
	return t
}

// fill records a fill of path and reports whether it completed the row:
// the path went from zero to one and every expected path is now filled
// exactly once.
func (t *rowTracker) fill(path string) bool {
	i, ok := t.pos[path]
	if !ok {
		return false
	}
	t.counts[i]++
	switch t.counts[i] {
	case 1:
		t.ones++
	case 2:
		t.ones--
	}
	if t.counts[i] == 1 && t.ones == len(t.expected) && !t.counted {
		t.counted = true
		return true
	}
	return false
}

func (t *rowTracker) count(path string) int {
	i, ok := t.pos[path]
	if !ok {
		return 0
	}
	return t.counts[i]
}

// pending reports whether anything was filled since the last reset.
func (t *rowTracker) pending() bool {
	for _, c := range t.counts {
		if c > 0 {
			return true
		}
	}
	return false
}

func (t *rowTracker) reset() {
	clear(t.counts)
	t.ones = 0
	t.counted = false
}
