// Package sources — discovery queue with deduplication.
// Maintains a seen set so the same file is never loaded twice.
package sources

// Queue keeps discovered paths in order, without duplicates.
type Queue struct {
	items []string
	seen  map[string]bool
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: make(map[string]bool),
	}
}

// Add enqueues a path unless its normalized form was seen before. It
// reports whether the path was added.
func (q *Queue) Add(path string) bool {
	key := NormalizePath(path)
	if q.seen[key] {
		return false
	}
	q.seen[key] = true
	q.items = append(q.items, path)
	return true
}

// Len returns the number of unique paths.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns all paths in discovery order.
func (q *Queue) All() []string {
	return q.items
}
