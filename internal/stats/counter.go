package stats

import "sort"

// CategoryCount is one value and how often it was seen.
type CategoryCount struct {
	Value string
	Count int
}

// Counter tallies categorical values and remembers the order in which each
// value was first seen, so ties resolve the same way on every run.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter returns a Counter pre-filled with values.
func NewCounter(values ...string) *Counter {
	c := &Counter{counts: make(map[string]int)}
	for _, v := range values {
		c.Add(v)
	}
	return c
}

// Add records one occurrence of v.
func (c *Counter) Add(v string) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// Count returns how many times v was added.
func (c *Counter) Count(v string) int { return c.counts[v] }

// Len is the number of distinct values.
func (c *Counter) Len() int { return len(c.order) }

// MostCommon returns up to n values by descending count. Equal counts keep
// first-seen order. n <= 0 returns every value.
func (c *Counter) MostCommon(n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, CategoryCount{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MostCommon returns the most frequent value, ties going to the value seen
// first.
func MostCommon(values []string) (string, error) {
	if len(values) == 0 {
		return "", ErrEmpty
	}
	top := NewCounter(values...).MostCommon(1)
	return top[0].Value, nil
}

// CountEqual counts the entries of values equal to v.
func CountEqual(values []string, v string) int {
	n := 0
	for _, x := range values {
		if x == v {
			n++
		}
	}
	return n
}
