package grid

// PageItem is one entry of the footer page list: a 1-based page number or
// an ellipsis gap.
type PageItem struct {
	Number   int
	Ellipsis bool
}

// maxPlainPages is the page count up to which every page is listed.
const maxPlainPages = 7

// PageNumbers lists the footer entries for the 1-based current page out of
// total pages. Up to seven pages are listed in full; beyond that the first
// and last page are always shown with a window around the current page.
func PageNumbers(current, total int) []PageItem {
	if total <= 0 {
		return nil
	}
	pages := make([]PageItem, 0, maxPlainPages)
	add := func(n int) { pages = append(pages, PageItem{Number: n}) }
	gap := func() { pages = append(pages, PageItem{Ellipsis: true}) }

	if total <= maxPlainPages {
		for i := 1; i <= total; i++ {
			add(i)
		}
		return pages
	}

	add(1)
	switch {
	case current <= 3:
		for i := 2; i <= 4; i++ {
			add(i)
		}
		gap()
		add(total)
	case current >= total-2:
		gap()
		for i := total - 3; i <= total; i++ {
			add(i)
		}
	default:
		gap()
		for i := current - 1; i <= current+1; i++ {
			add(i)
		}
		gap()
		add(total)
	}
	return pages
}
