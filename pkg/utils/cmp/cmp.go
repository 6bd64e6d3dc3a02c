// Package cmp has shorthands comparing slices and maps in tests.
package cmp

// SliceEq returns true when a and b have the same elements in the same order.
func SliceEq[T comparable](a, b []T) bool {
	return SliceEqWith(a, b, func(x, y T) bool { return x == y })
}

// SliceEqWith is SliceEq with a custom equality predicate.
func SliceEqWith[T any, U any](a []T, b []U, eq func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SliceContentEq returns true when a and b have the same elements,
// ignoring order. Elements are matched one-to-one.
func SliceContentEq[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for i, y := range b {
			if used[i] {
				continue
			}
			if x == y {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MapEq returns true when a and b have the same key-value pairs.
func MapEq[K comparable, V comparable](a, b map[K]V) bool {
	return MapEqWith(a, b, func(x, y V) bool { return x == y })
}

// MapEqWith is MapEq with a custom equality predicate on values.
func MapEqWith[K comparable, V any, W any](a map[K]V, b map[K]W, eq func(V, W) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !eq(va, vb) {
			return false
		}
	}
	return true
}
