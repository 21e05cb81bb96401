package workforce

// record is a stored item together with its insertion sequence.
type record[T any] struct {
	seq  uint64
	data T
}

// collection holds one record kind ordered by insertion sequence.
type collection[T any] struct {
	prefix string
	idOf   func(T) string
	order  []string
	items  map[string]record[T]
}

func newCollection[T any](prefix string, idOf func(T) string) *collection[T] {
	return &collection[T]{
		prefix: prefix,
		idOf:   idOf,
		items:  make(map[string]record[T]),
	}
}

func (c *collection[T]) key(id string) string {
	return c.prefix + id
}

func (c *collection[T]) get(id string) (T, bool) {
	r, ok := c.items[id]
	return r.data, ok
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id].data)
	}
	return out
}

func (c *collection[T]) put(r record[T]) {
	id := c.idOf(r.data)
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = r
}

func (c *collection[T]) reset() {
	c.order = nil
	c.items = make(map[string]record[T])
}

func (c *collection[T]) maxSeq() uint64 {
	var highest uint64
	for _, r := range c.items {
		if r.seq > highest {
			highest = r.seq
		}
	}
	return highest
}

// staged buffers the writes of one transaction for a collection.
type staged[T any] struct {
	writes map[string]T
	order  []string
}

func (st *staged[T]) put(id string, v T) {
	if st.writes == nil {
		st.writes = make(map[string]T)
	}
	if _, ok := st.writes[id]; !ok {
		st.order = append(st.order, id)
	}
	st.writes[id] = v
}

func viewGet[T any](c *collection[T], st *staged[T], id string) (T, bool) {
	if v, ok := st.writes[id]; ok {
		return v, true
	}
	return c.get(id)
}

func viewList[T any](c *collection[T], st *staged[T]) []T {
	out := make([]T, 0, len(c.order)+len(st.order))
	for _, id := range c.order {
		if v, ok := st.writes[id]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, c.items[id].data)
	}
	for _, id := range st.order {
		if _, exists := c.items[id]; exists {
			continue
		}
		out = append(out, st.writes[id])
	}
	return out
}
