package display

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-signage/models"
)

func TestVisibleCountFindsLargestFit(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for k := 1; k <= 10; k++ {
			f := NewFitEstimator(capacity(k), &SlotRenderer{})
			cats := []models.Category{category("Drinks", n)}

			got := f.VisibleCount(NewSurface(), cats, 0)
			assert.Equal(t, min(k, n, MaxItems), got, "items=%d capacity=%d", n, k)
		}
	}
}

func TestVisibleCountFloorIsOne(t *testing.T) {
	f := NewFitEstimator(capacity(0), &SlotRenderer{})
	got := f.VisibleCount(NewSurface(), []models.Category{category("Drinks", 5)}, 0)
	assert.Equal(t, 1, got)
}

func TestVisibleCountMemoizes(t *testing.T) {
	calls := 0
	probe := ProbeFunc(func(count int) bool {
		calls++
		return count <= 3
	})
	f := NewFitEstimator(probe, &SlotRenderer{})
	surface := NewSurface()
	cats := []models.Category{category("Drinks", 8)}

	require.Equal(t, 3, f.VisibleCount(surface, cats, 0))
	first := calls
	require.Positive(t, first)

	assert.Equal(t, 3, f.VisibleCount(surface, cats, 0))
	assert.Equal(t, first, calls, "second lookup should hit the memo")

	f.Clear()
	assert.Equal(t, 3, f.VisibleCount(surface, cats, 0))
	assert.Greater(t, calls, first)
}

func TestVisibleCountEmptyCategory(t *testing.T) {
	f := NewFitEstimator(capacity(5), &SlotRenderer{})
	cats := []models.Category{{Title: "Leeg"}}

	assert.Equal(t, 0, f.VisibleCount(NewSurface(), cats, 0))
	n, ok := f.Cached(0)
	assert.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestVisibleCountMissingPrimarySlot(t *testing.T) {
	f := NewFitEstimator(capacity(5), &SlotRenderer{})
	surface := NewSurface(0, 2, 3)

	assert.Equal(t, 0, f.VisibleCount(surface, []models.Category{category("Drinks", 4)}, 0))
	_, ok := f.Cached(0)
	assert.False(t, ok, "a failed measurement must be retried")
}

type failingProbe struct{}

func (failingProbe) Fits(*Slot) (bool, error) { return false, errors.New("page crashed") }

func TestVisibleCountProbeErrorRestoresSlot(t *testing.T) {
	f := NewFitEstimator(failingProbe{}, &SlotRenderer{})
	surface := NewSurface()
	slot := surface.Slot(PrimarySlot)
	slot.Display = DisplayNone

	assert.Equal(t, 0, f.VisibleCount(surface, []models.Category{category("Drinks", 4)}, 0))
	assert.Equal(t, DisplayNone, slot.Display)
	assert.Equal(t, "", slot.Visibility)
	_, ok := f.Cached(0)
	assert.False(t, ok)
}

func TestVisibleCountMeasuresHiddenBlock(t *testing.T) {
	surface := NewSurface()
	slot := surface.Slot(PrimarySlot)
	slot.Display = DisplayNone

	var seen []string
	probe := ProbeFunc(func(count int) bool {
		seen = append(seen, slot.Display+"/"+slot.Visibility)
		return true
	})
	f := NewFitEstimator(probe, &SlotRenderer{})
	f.VisibleCount(surface, []models.Category{category("Drinks", 6)}, 0)

	require.NotEmpty(t, seen)
	for _, s := range seen {
		assert.Equal(t, "block/hidden", s)
	}
	assert.Equal(t, DisplayNone, slot.Display)
	assert.Equal(t, "", slot.Visibility)
}

func TestLineProbe(t *testing.T) {
	p := LineProbe{Lines: 7}
	f := NewFitEstimator(p, &SlotRenderer{})
	assert.Equal(t, 5, f.VisibleCount(NewSurface(), []models.Category{category("Drinks", 8)}, 0))

	fits, err := LineProbe{Lines: 3, TitleLines: 1}.Fits(&Slot{Rows: make([]Row, 2)})
	require.NoError(t, err)
	assert.True(t, fits)
}
