package display

import (
	"menu-signage/logging"
	"menu-signage/models"
)

// SizeProbe tells whether the content currently painted in a slot fits the
// slot's box (scrollHeight <= clientHeight + 1 on a real page).
type SizeProbe interface {
	Fits(slot *Slot) (bool, error)
}

// ViewportAware probes are told when the kiosk viewport changes.
type ViewportAware interface {
	SetViewport(width, height int)
}

// ProbeFunc adapts a function of the painted row count to a SizeProbe.
type ProbeFunc func(count int) bool

// Fits implements SizeProbe
func (f ProbeFunc) Fits(slot *Slot) (bool, error) {
	return f(len(slot.Rows)), nil
}

// LineProbe measures in text lines: the title and divider take TitleLines,
// every row takes one. It stands in for a layout engine in the terminal
// preview and when no browser is available.
type LineProbe struct {
	Lines      int
	TitleLines int
}

// Fits implements SizeProbe
func (p LineProbe) Fits(slot *Slot) (bool, error) {
	title := p.TitleLines
	if title <= 0 {
		title = 2
	}
	return title+len(slot.Rows) <= p.Lines, nil
}

// VisibleCountCache memoizes the fit result per category index.
type VisibleCountCache map[int]int

// Clear drops every entry
func (c VisibleCountCache) Clear() {
	for k := range c {
		delete(c, k)
	}
}

// FitEstimator finds how many items of a category fit in the primary slot.
type FitEstimator struct {
	probe    SizeProbe
	renderer *SlotRenderer
	cache    VisibleCountCache
}

// NewFitEstimator creates a FitEstimator measuring through probe
func NewFitEstimator(probe SizeProbe, renderer *SlotRenderer) *FitEstimator {
	return &FitEstimator{
		probe:    probe,
		renderer: renderer,
		cache:    make(VisibleCountCache),
	}
}

// Clear empties the memo
func (f *FitEstimator) Clear() {
	f.cache.Clear()
}

// Cached returns the memoized count for a category, if any
func (f *FitEstimator) Cached(index int) (int, bool) {
	n, ok := f.cache[index]
	return n, ok
}

// VisibleCount returns the largest item count of categories[index], at most
// MaxItems, that fits in the primary slot of surface. Empty categories give
// 0. A missing primary slot or a probe failure also gives 0 and is not
// memoized, so the next pass measures again.
func (f *FitEstimator) VisibleCount(surface *Surface, categories []models.Category, index int) int {
	if n, ok := f.cache[index]; ok {
		return min(n, MaxItems)
	}
	if index < 0 || index >= len(categories) || len(categories[index].Items) == 0 {
		f.cache[index] = 0
		return 0
	}
	slot := surface.Slot(PrimarySlot)
	if slot == nil {
		logging.Log.Warnf("⚠️ Primary slot missing, cannot measure category %d", index)
		return 0
	}

	n, err := f.search(slot, &categories[index])
	if err != nil {
		logging.Log.Warnf("⚠️ Failed to measure category %q: %v", categories[index].Title, err)
		return 0
	}
	f.cache[index] = n
	return n
}

func (f *FitEstimator) search(slot *Slot, category *models.Category) (int, error) {
	prevDisplay, prevVisibility := slot.Display, slot.Visibility
	slot.Display = DisplayBlock
	slot.Visibility = Hidden
	defer func() {
		slot.Display = prevDisplay
		slot.Visibility = prevVisibility
	}()

	lo, hi := 1, min(len(category.Items), MaxItems)
	best := 1
	for lo <= hi {
		mid := (lo + hi) / 2
		f.renderer.RenderCategory(slot, category, category.Items[:mid])
		fits, err := f.probe.Fits(slot)
		if err != nil {
			return 0, err
		}
		if fits {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}
