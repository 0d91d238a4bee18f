package render

// arena is a fixed-capacity pool of records released in bulk. Records are
// never freed individually.
type arena[T any] struct {
	items []T
	err   error
}

func newArena[T any](capacity int, err error) arena[T] {
	return arena[T]{items: make([]T, 0, capacity), err: err}
}

// alloc returns a zeroed record, or the arena's exhaustion error.
func (a *arena[T]) alloc() (*T, error) {
	if len(a.items) == cap(a.items) {
		return nil, a.err
	}
	var zero T
	a.items = append(a.items, zero)
	return &a.items[len(a.items)-1], nil
}

func (a *arena[T]) reset() {
	a.items = a.items[:0]
}

func (a *arena[T]) len() int {
	return len(a.items)
}
