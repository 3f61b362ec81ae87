package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-signage/models"
)

func staticSource(c *models.Catalog) CatalogSource {
	return CatalogSourceFunc(func(context.Context) (*models.Catalog, error) { return c, nil })
}

// sessionOnSecondPage returns a session showing page 1 of "Bier"
func sessionOnSecondPage(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(capacity(4), 2)
	s.Load(catalogOf(category("Wijn", 2), category("Bier", 10), category("Fris", 3)))
	s.Tick(time.Now())
	s.Tick(time.Now())
	require.Equal(t, models.RotationState{CategoryIndex: 1, PagePartIndex: 1}, s.State())
	return s
}

func TestCheckKeepsPositionByTitle(t *testing.T) {
	s := sessionOnSecondPage(t)
	c := NewCoordinator(staticSource(catalogOf(
		category("Fris", 3),
		category("Koffie", 4),
		category("Bier", 7),
	)), s)

	changed, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RotationState{CategoryIndex: 2, PagePartIndex: 0}, s.State())
	assert.Equal(t, "Bier", s.Frame().Slot(1).Title)
}

func TestCheckResetsWhenTitleGone(t *testing.T) {
	s := sessionOnSecondPage(t)
	c := NewCoordinator(staticSource(catalogOf(category("Wijn", 2), category("Fris", 3))), s)

	changed, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RotationState{}, s.State())
}

func TestCheckUnchangedIsNoop(t *testing.T) {
	s := sessionOnSecondPage(t)
	seq := s.Frame().Sequence
	same := &models.Catalog{
		Categories:  s.Categories(),
		LastUpdated: time.Now(),
		Source:      "neon-database",
	}

	changed, err := NewCoordinator(staticSource(same), s).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.RotationState{CategoryIndex: 1, PagePartIndex: 1}, s.State())
	assert.Equal(t, seq, s.Frame().Sequence, "no re-render without a change")
}

func TestCheckFetchErrorLeavesDisplay(t *testing.T) {
	s := sessionOnSecondPage(t)
	before := s.Frame()
	src := CatalogSourceFunc(func(context.Context) (*models.Catalog, error) {
		return nil, errors.New("connection refused")
	})

	changed, err := NewCoordinator(src, s).Check(context.Background())
	assert.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, s.Frame())
}

func TestCheckReplacesInPlace(t *testing.T) {
	s := newTestSession(capacity(4), 2)
	s.Load(catalogOf(category("Wijn", 2), category("Bier", 3), category("Fris", 1)))
	before := &s.categories[0]

	_, err := NewCoordinator(staticSource(catalogOf(category("Thee", 2))), s).Check(context.Background())
	require.NoError(t, err)

	assert.Same(t, before, &s.categories[0], "backing array is reused")
	assert.Equal(t, "Thee", s.categories[0].Title)
	assert.Len(t, s.categories, 1)
}

func TestCheckClearsMemo(t *testing.T) {
	probe := &viewportProbe{capacity: 4}
	s := newTestSession(probe, 2)
	s.Load(catalogOf(category("Bier", 10)))

	probe.capacity = 2
	_, err := NewCoordinator(staticSource(catalogOf(category("Bier", 9))), s).Check(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Frame().Slot(1).Rows, 2)
}
