package grid

import (
	"cmp"
	"strings"
	"time"
)

// Comparator orders two records: negative when a sorts before b.
type Comparator[T any] func(a, b T) int

// ByString compares a string field case-insensitively, falling back to the
// exact value so the order stays total.
func ByString[T any](field func(T) string) Comparator[T] {
	return func(a, b T) int {
		fa, fb := field(a), field(b)
		if c := strings.Compare(strings.ToLower(fa), strings.ToLower(fb)); c != 0 {
			return c
		}
		return strings.Compare(fa, fb)
	}
}

// ByOrdered compares an ordered field.
func ByOrdered[T any, V cmp.Ordered](field func(T) V) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(field(a), field(b))
	}
}

// ByTime compares a timestamp field.
func ByTime[T any](field func(T) time.Time) Comparator[T] {
	return func(a, b T) int {
		return field(a).Compare(field(b))
	}
}

// ByPriority orders by a rank table; unknown values sort last.
func ByPriority[T any](field func(T) string, ranks map[string]int) Comparator[T] {
	rank := func(v string) int {
		if r, ok := ranks[v]; ok {
			return r
		}
		return len(ranks)
	}
	return func(a, b T) int {
		return cmp.Compare(rank(field(a)), rank(field(b)))
	}
}
