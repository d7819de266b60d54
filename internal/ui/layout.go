package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 80

	// LayoutMetaWidth is the minimum width to show category and area
	// next to a meal name.
	LayoutMetaWidth = 60

	// DetailMaxWidth caps the width of wrapped recipe text.
	DetailMaxWidth = 100
)

// Vertical chrome around the content box: header, command bar, status line
// and the box border.
const chromeHeight = 5

// Search defaults, used when Options leaves them unset.
const (
	// DefaultSearchDebounce is the quiet period before a search is sent.
	DefaultSearchDebounce = 500 * time.Millisecond

	// DefaultMinQueryLength is the shortest query that is sent.
	DefaultMinQueryLength = 3
)

// contentHeight returns the number of rows inside the content box.
func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 1)
}

// contentWidth returns the number of columns inside the content box.
func (m Model) contentWidth() int {
	return max(m.width-4, 10)
}

// clampIndex keeps a selection inside a list of n items.
func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// visibleWindow returns the [start, end) slice of n rows to draw so that
// selected stays on screen.
func visibleWindow(selected, n, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	return start, min(start+height, n)
}
