package display

import (
	"time"

	"menu-signage/logging"
	"menu-signage/models"
)

// Tick advances the rotation by one page and re-renders. Categories that
// cannot show anything (no items, or nothing fits) are left on the next
// tick. An empty catalog never moves.
func (s *Session) Tick(now time.Time) Frame {
	s.mu.Lock()
	s.advanceLocked()
	f := s.renderLocked(now)
	s.mu.Unlock()

	s.publish(f)
	return f
}

// Resize records the kiosk viewport, forgets measured fits and re-renders.
func (s *Session) Resize(width, height int) Frame {
	s.mu.Lock()
	s.width, s.height = width, height
	if va, ok := s.probe.(ViewportAware); ok {
		va.SetViewport(width, height)
	}
	s.fit.Clear()
	f := s.renderLocked(s.now())
	s.mu.Unlock()

	s.publish(f)
	return f
}

// FontsReady re-measures once web fonts are in: the memo is dropped and the
// current category restarts at its first page.
func (s *Session) FontsReady() Frame {
	s.mu.Lock()
	s.fit.Clear()
	s.state.PagePartIndex = 0
	f := s.renderLocked(s.now())
	s.mu.Unlock()

	s.publish(f)
	return f
}

func (s *Session) advanceLocked() {
	if len(s.categories) == 0 {
		return
	}
	if s.state.CategoryIndex >= len(s.categories) {
		s.state = models.RotationState{}
	}

	s.state.PagePartIndex++
	cat := &s.categories[s.state.CategoryIndex]
	size := s.pageSizeLocked(s.state.CategoryIndex)

	if len(cat.Items) == 0 || size == 0 {
		logging.Log.Debugf("Skipping category %d (%s): nothing to show", s.state.CategoryIndex, cat.Title)
		s.nextCategoryLocked()
		return
	}

	totalParts := max(1, (len(cat.Items)+size-1)/size)
	if s.state.PagePartIndex >= totalParts {
		s.nextCategoryLocked()
	}
}

func (s *Session) nextCategoryLocked() {
	s.state.PagePartIndex = 0
	s.state.CategoryIndex = (s.state.CategoryIndex + 1) % len(s.categories)
}

// pageSizeLocked is the number of items one page of a category holds in
// the current layout mode.
func (s *Session) pageSizeLocked(index int) int {
	if s.columns == 1 {
		return MaxItems
	}
	return min(s.fit.VisibleCount(s.surface, s.categories, index), MaxItems)
}

// renderLocked clears every slot and paints the current position.
func (s *Session) renderLocked(at time.Time) Frame {
	for _, i := range SlotOrder {
		if slot := s.surface.Slot(i); slot != nil {
			slot.Clear()
			slot.Display = DisplayNone
		}
	}

	if s.state.CategoryIndex < len(s.categories) && len(s.categories[s.state.CategoryIndex].Items) > 0 {
		if s.columns == 1 {
			s.renderSingleLocked()
		} else {
			s.renderDoubleLocked()
		}
	}

	s.seq++
	s.frame = Frame{
		SessionID:  s.id,
		Sequence:   s.seq,
		State:      s.state,
		Columns:    s.columns,
		Slots:      s.surface.Snapshot(),
		RenderedAt: at,
	}
	return s.frame
}

func (s *Session) renderSingleLocked() {
	cat := &s.categories[s.state.CategoryIndex]
	start := min(s.state.PagePartIndex*MaxItems, len(cat.Items))
	end := min(len(cat.Items), start+MaxItems)
	s.show(SlotOrder[0], cat, cat.Items[start:end])
}

func (s *Session) renderDoubleLocked() {
	idx := s.state.CategoryIndex
	cat := &s.categories[idx]
	v := min(s.fit.VisibleCount(s.surface, s.categories, idx), MaxItems)
	if v == 0 {
		if slot := s.surface.Slot(PrimarySlot); slot != nil {
			slot.Clear()
		}
		return
	}

	items := cat.Items
	next := &s.categories[(idx+1)%len(s.categories)]

	if len(items) <= v {
		s.show(SlotOrder[0], cat, items)
		s.show(SlotOrder[1], next, next.Items[:min(v, len(next.Items))])
		return
	}

	start := min(s.state.PagePartIndex*v, len(items))
	end := min(len(items), start+2*v)
	s.show(SlotOrder[0], cat, items[start:min(end, start+v)])
	if start+v < end {
		s.show(SlotOrder[1], cat, items[start+v:end])
		return
	}
	s.show(SlotOrder[1], next, next.Items[:min(v, len(next.Items))])
}

func (s *Session) show(index int, cat *models.Category, items []models.Item) {
	slot := s.surface.Slot(index)
	if slot == nil {
		return
	}
	slot.Display = DisplayBlock
	slot.Visibility = ""
	s.renderer.RenderCategory(slot, cat, items)
}
