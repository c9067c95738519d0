package tui

// Recall is a bounded ring of submitted lines walked with up/down.
type Recall struct {
	lines []string
	size  int
	pos   int // len(lines) means "past the newest", i.e. a fresh prompt
}

// NewRecall creates a ring that keeps at most size lines
func NewRecall(size int) *Recall {
	if size <= 0 {
		size = 1
	}
	return &Recall{size: size}
}

// Push records a submitted line and resets the position to a fresh prompt
func (r *Recall) Push(line string) {
	r.lines = append(r.lines, line)
	if len(r.lines) > r.size {
		r.lines = r.lines[len(r.lines)-r.size:]
	}
	r.pos = len(r.lines)
}

// Prev moves to the previous line and returns it. It stays on the oldest
// line once reached; with no lines it returns "".
func (r *Recall) Prev() string {
	if len(r.lines) == 0 {
		return ""
	}
	if r.pos > 0 {
		r.pos--
	}
	return r.lines[r.pos]
}

// Next moves toward the newest line; past it, it returns "" for a fresh prompt.
func (r *Recall) Next() string {
	if r.pos < len(r.lines)-1 {
		r.pos++
		return r.lines[r.pos]
	}
	r.pos = len(r.lines)
	return ""
}

// Len returns the number of lines kept
func (r *Recall) Len() int {
	return len(r.lines)
}
