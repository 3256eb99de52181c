// Package report holds the pure aggregation engines behind each dashboard
// view. Engines take normalized domain records and return report DTOs;
// they never fetch, cache or log.
package report

// Table is an insertion-ordered grouping accumulator. Rows materialize on
// first access through the init function, and Keys preserves the order
// rows were created in, which keeps rankings stable for equal totals and
// chart series in first-seen order.
type Table[A any] struct {
	init func(key string) *A
	keys []string
	rows map[string]*A
}

// NewTable creates a table whose rows are built by init on first access
func NewTable[A any](init func(key string) *A) *Table[A] {
	return &Table[A]{
		init: init,
		rows: make(map[string]*A),
	}
}

// Seed materializes rows for the given keys up front. Pre-seeding puts
// every known agent in a report even when no record references them.
func (t *Table[A]) Seed(keys ...string) {
	for _, key := range keys {
		t.At(key)
	}
}

// At returns the row for key, creating it on first access
func (t *Table[A]) At(key string) *A {
	if row, ok := t.rows[key]; ok {
		return row
	}
	row := t.init(key)
	t.rows[key] = row
	t.keys = append(t.keys, key)
	return row
}

// Has reports whether a row exists without creating one
func (t *Table[A]) Has(key string) bool {
	_, ok := t.rows[key]
	return ok
}

// Keys returns the row keys in insertion order
func (t *Table[A]) Keys() []string {
	return t.keys
}

// Len is the number of materialized rows
func (t *Table[A]) Len() int {
	return len(t.keys)
}

// Rows returns the rows in insertion order
func (t *Table[A]) Rows() []*A {
	out := make([]*A, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, t.rows[key])
	}
	return out
}
