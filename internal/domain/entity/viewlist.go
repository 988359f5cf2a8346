package entity

// ListOrder selects one of the three orderings a ViewList maintains
// over its working set.
type ListOrder int

const (
	OrderNatural ListOrder = iota // display order, reorderable
	OrderAdded                    // newest-first insertion order
	OrderMRU                      // most-recently-used first
)

// AddOutcome describes what an Insert call did, so callers can decide
// which notification to fire.
type AddOutcome int

const (
	// AddedNew means the file was absent and has been inserted into
	// all three orderings.
	AddedNew AddOutcome = iota
	// Relocated means the file was already present and moved within
	// the natural order; callers should fire a sort notification.
	Relocated
	// Unchanged means the call was a no-op.
	Unchanged
)

// InsertOptions tunes Insert behavior.
type InsertOptions struct {
	// Index is the natural-order position for the file. Negative
	// means end-of-list; a negative index never relocates an
	// existing entry.
	Index int
	// Force relocates an already-present file to Index even when a
	// plain call would be a no-op.
	Force bool
	// MRUFront places a newly added file at the front of the MRU
	// order instead of the tail. Ignored for files already present.
	MRUFront bool
}

// ViewList maintains the three orderings of one pane's working set.
// Invariant: all three orderings contain exactly the same set of
// files, and a file appears at most once.
type ViewList struct {
	natural []FileRef
	added   []FileRef // newest first
	mru     []FileRef // most recent first
}

// NewViewList creates an empty view list.
func NewViewList() *ViewList {
	return &ViewList{}
}

// Size returns the number of files in the working set.
func (l *ViewList) Size() int {
	return len(l.natural)
}

// IndexOf returns the position of path in the given ordering, or -1.
func (l *ViewList) IndexOf(order ListOrder, path string) int {
	return indexOfPath(l.ordering(order), path)
}

// Contains reports whether path is in the working set.
func (l *ViewList) Contains(path string) bool {
	return indexOfPath(l.natural, path) != -1
}

// Files returns a copy of the given ordering.
func (l *ViewList) Files(order ListOrder) []FileRef {
	src := l.ordering(order)
	out := make([]FileRef, len(src))
	copy(out, src)
	return out
}

// Get returns the file at index i of the given ordering, or nil when
// out of range.
func (l *ViewList) Get(order ListOrder, i int) FileRef {
	src := l.ordering(order)
	if i < 0 || i >= len(src) {
		return nil
	}
	return src[i]
}

// Insert adds file to the working set or relocates it.
//
// Absent file: inserted at opts.Index in the natural order (end when
// negative), front of the added order, and front or tail of the MRU
// order per opts.MRUFront. Returns AddedNew.
//
// Present file: when opts.Force is set, or a non-negative opts.Index
// differs from the current position, the entry moves within the
// natural order only and Relocated is returned. Otherwise Unchanged.
func (l *ViewList) Insert(file FileRef, opts InsertOptions) AddOutcome {
	if file == nil {
		return Unchanged
	}
	path := file.FullPath()
	cur := indexOfPath(l.natural, path)

	if cur == -1 {
		l.natural = insertAt(l.natural, file, opts.Index)
		l.added = append([]FileRef{file}, l.added...)
		if opts.MRUFront {
			l.mru = append([]FileRef{file}, l.mru...)
		} else {
			l.mru = append(l.mru, file)
		}
		return AddedNew
	}

	wantsMove := opts.Force || (opts.Index >= 0 && opts.Index != cur)
	if !wantsMove {
		return Unchanged
	}

	l.natural = append(l.natural[:cur], l.natural[cur+1:]...)
	l.natural = insertAt(l.natural, file, opts.Index)
	return Relocated
}

// Remove deletes file from all three orderings atomically. Returns
// false, with no state change, when the file is absent.
func (l *ViewList) Remove(file FileRef) bool {
	if file == nil {
		return false
	}
	path := file.FullPath()
	if indexOfPath(l.natural, path) == -1 {
		return false
	}
	l.natural = removePath(l.natural, path)
	l.added = removePath(l.added, path)
	l.mru = removePath(l.mru, path)
	return true
}

// MakeMostRecent moves file to the front of the MRU order. No-op when
// the file is absent.
func (l *ViewList) MakeMostRecent(file FileRef) {
	if file == nil {
		return
	}
	i := indexOfPath(l.mru, file.FullPath())
	if i <= 0 {
		return
	}
	entry := l.mru[i]
	l.mru = append(l.mru[:i], l.mru[i+1:]...)
	l.mru = append([]FileRef{entry}, l.mru...)
}

// Swap exchanges two natural-order slots. Returns false, with no state
// change, when either index is out of range.
func (l *ViewList) Swap(i, j int) bool {
	if i < 0 || j < 0 || i >= len(l.natural) || j >= len(l.natural) {
		return false
	}
	l.natural[i], l.natural[j] = l.natural[j], l.natural[i]
	return true
}

// SortNatural reorders the natural order with the given comparison.
// The added and MRU orders are untouched.
func (l *ViewList) SortNatural(less func(a, b FileRef) bool) {
	if less == nil {
		return
	}
	// Insertion sort keeps this dependency-free and stable; working
	// sets are small.
	for i := 1; i < len(l.natural); i++ {
		for j := i; j > 0 && less(l.natural[j], l.natural[j-1]); j-- {
			l.natural[j], l.natural[j-1] = l.natural[j-1], l.natural[j]
		}
	}
}

// TraverseMRU steps through the MRU order with wraparound.
// direction must be +1 or -1. When currentPath is absent the MRU head
// is returned (nil for an empty list). With exactly one entry the same
// entry is returned for either direction.
func (l *ViewList) TraverseMRU(direction int, currentPath string) FileRef {
	if len(l.mru) == 0 {
		return nil
	}
	cur := indexOfPath(l.mru, currentPath)
	if cur == -1 {
		return l.mru[0]
	}
	next := (cur + direction + len(l.mru)) % len(l.mru)
	return l.mru[next]
}

// Merge appends the entries of other that are not already present,
// preserving other's relative order within each ordering. Used when
// two panes merge: this list's entries come first.
func (l *ViewList) Merge(other *ViewList) {
	if other == nil {
		return
	}
	for _, f := range other.natural {
		if !l.Contains(f.FullPath()) {
			l.natural = append(l.natural, f)
			l.added = append(l.added, f)
			l.mru = append(l.mru, f)
		}
	}
}

// Reset discards all entries.
func (l *ViewList) Reset() {
	l.natural = nil
	l.added = nil
	l.mru = nil
}

func (l *ViewList) ordering(order ListOrder) []FileRef {
	switch order {
	case OrderAdded:
		return l.added
	case OrderMRU:
		return l.mru
	default:
		return l.natural
	}
}

func indexOfPath(files []FileRef, path string) int {
	if path == "" {
		return -1
	}
	for i, f := range files {
		if f.FullPath() == path {
			return i
		}
	}
	return -1
}

func removePath(files []FileRef, path string) []FileRef {
	i := indexOfPath(files, path)
	if i == -1 {
		return files
	}
	return append(files[:i], files[i+1:]...)
}

func insertAt(files []FileRef, file FileRef, index int) []FileRef {
	if index < 0 || index >= len(files) {
		return append(files, file)
	}
	files = append(files[:index], append([]FileRef{file}, files[index:]...)...)
	return files
}
