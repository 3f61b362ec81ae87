package display

import (
	"bytes"
	"html/template"

	"menu-signage/logging"
	"menu-signage/models"
	"menu-signage/utils"
)

var slotTemplate = template.Must(template.New("slot").Parse(
	`<div class="CategoryTitle">{{.Title}}</div><hr />` +
		`<div class="MenuItemsContainer">{{range .Rows}}` +
		`<div class="MenuItem{{if .OnSale}} on-sale{{end}}{{if .IsNew}} is-new{{end}}">` +
		`<div class="MenuItemType">{{.Name}}` +
		`{{if .OnSale}}<span class="sale-badge">Aanbieding</span>{{end}}` +
		`{{if .IsNew}}<span class="new-badge">Nieuw</span>{{end}}</div>` +
		`<div class="MenuFoodItem">{{.Price}}</div>` +
		`</div>{{end}}</div>`))

// SlotRenderer paints categories into slots. It keeps no state of its own.
type SlotRenderer struct{}

// RenderCategory writes category into slot. items overrides the category's
// own item list when non-nil. A nil category clears the slot.
func (r *SlotRenderer) RenderCategory(slot *Slot, category *models.Category, items []models.Item) {
	if slot == nil {
		return
	}
	if category == nil {
		slot.Clear()
		return
	}
	if items == nil {
		items = category.Items
	}

	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			Name:   utils.CleanName(it.Name),
			Price:  utils.FormatEuro(it.Price),
			OnSale: it.OnSale,
			IsNew:  it.IsNew,
		})
	}

	var buf bytes.Buffer
	err := slotTemplate.Execute(&buf, struct {
		Title string
		Rows  []Row
	}{category.Title, rows})
	if err != nil {
		logging.Log.Errorf("❌ Failed to render slot %d (%s): %v", slot.Index, category.Title, err)
		slot.Clear()
		return
	}

	slot.Title = category.Title
	slot.Rows = rows
	slot.HTML = template.HTML(buf.String())
}
