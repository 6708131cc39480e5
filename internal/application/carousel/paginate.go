package carousel

// Paginate splits items into consecutive pages of size elements. The last
// page may be short. A non-positive size yields no pages.
func Paginate[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return [][]T{}
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end:end])
	}
	return pages
}

// PageIndexOf maps a flat item index to the page holding it.
func PageIndexOf(index, size int) int {
	if size <= 0 || index < 0 {
		return 0
	}
	return index / size
}

// PagesOf maps a set of flat indices to the distinct pages holding them,
// in ascending order when indices are sorted.
func PagesOf(indices []int, size int) []int {
	pages := []int{}
	for _, i := range indices {
		p := PageIndexOf(i, size)
		if len(pages) == 0 || pages[len(pages)-1] != p {
			pages = append(pages, p)
		}
	}
	return pages
}
