package lmp

import "strconv"

// catalog is an insertion-ordered map of short names to entities of one kind.
type catalog[T any] struct {
	kind   string
	items  map[string]T
	order  []string
	counts map[string]int
}

func newCatalog[T any](kind string) *catalog[T] {
	return &catalog[T]{
		kind:   kind,
		items:  make(map[string]T),
		counts: make(map[string]int),
	}
}

func (c *catalog[T]) has(name string) bool {
	_, ok := c.items[name]
	return ok
}

func (c *catalog[T]) get(name string) (T, bool) {
	v, ok := c.items[name]
	return v, ok
}

// claim checks name is free, minting keyword+ordinal when name is empty.
func (c *catalog[T]) claim(name, keyword string) (string, error) {
	if name != "" {
		if c.has(name) {
			return "", Duplicate(c.kind, name)
		}
		return name, nil
	}
	for {
		c.counts[keyword]++
		candidate := keyword + strconv.Itoa(c.counts[keyword])
		if !c.has(candidate) {
			return candidate, nil
		}
	}
}

func (c *catalog[T]) put(name string, v T) {
	c.items[name] = v
	c.order = append(c.order, name)
}

func (c *catalog[T]) names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *catalog[T]) values() []T {
	out := make([]T, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}
