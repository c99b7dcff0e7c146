// Package query holds the ordering and search primitives used by task and user
// listings. The routines are deliberately simple comparison sorts.
package query

// Less reports whether a must be ordered before b.
type Less[T any] func(a, b T) bool

// SelectionSort orders items in place and returns them. It is not stable.
func SelectionSort[T any](items []T, less Less[T]) []T {
	n := len(items)
	for i := 0; i < n; i++ {
		minIndex := i
		for j := i + 1; j < n; j++ {
			if less(items[j], items[minIndex]) {
				minIndex = j
			}
		}
		items[i], items[minIndex] = items[minIndex], items[i]
	}
	return items
}

// MergeSort returns a stably ordered copy of items.
func MergeSort[T any](items []T, less Less[T]) []T {
	if len(items) <= 1 {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	mid := len(items) / 2
	left := MergeSort(items[:mid], less)
	right := MergeSort(items[mid:], less)
	return merge(left, right, less)
}

func merge[T any](left, right []T, less Less[T]) []T {
	out := make([]T, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		// ties take the left element
		if !less(right[j], left[i]) {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	return append(out, right[j:]...)
}

// Reverse flips items in place.
func Reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
