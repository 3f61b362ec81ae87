package display

import (
	"fmt"

	"menu-signage/models"
)

func makeItems(prefix string, n int) []models.Item {
	out := make([]models.Item, n)
	for i := range out {
		out[i] = models.Item{Name: fmt.Sprintf("%s %d", prefix, i+1), Price: models.PriceOf(2.5)}
	}
	return out
}

func category(title string, n int) models.Category {
	return models.Category{Title: title, Items: makeItems(title, n)}
}

func catalogOf(cats ...models.Category) *models.Catalog {
	return &models.Catalog{Categories: cats}
}

// capacity returns a probe that fits up to n rows
func capacity(n int) ProbeFunc {
	return func(count int) bool { return count <= n }
}

func rowNames(f Frame, slot int) []string {
	s := f.Slot(slot)
	if s == nil || !s.Visible() {
		return nil
	}
	names := make([]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		names = append(names, r.Name)
	}
	return names
}

func names(prefix string, from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s %d", prefix, i))
	}
	return out
}

func newTestSession(probe SizeProbe, columns int) *Session {
	return NewSession(probe, WithColumns(columns))
}
