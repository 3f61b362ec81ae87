package display

import (
	"html/template"
	"sort"
)

const (
	// MaxItems caps how many items a slot shows, however much would fit.
	MaxItems = 8

	// PrimarySlot is the slot the fit estimator measures against.
	PrimarySlot = 1
)

// SlotOrder is the order slots are addressed in: the first two are the ones
// the rotation fills, the others are cleared on every pass.
var SlotOrder = []int{1, 2, 3, 0}

// Style values mirrored onto the kiosk page
const (
	DisplayNone  = "none"
	DisplayBlock = "block"
	Hidden       = "hidden"
)

// Row is one painted menu line
type Row struct {
	Name   string `json:"name"`
	Price  string `json:"price"`
	OnSale bool   `json:"onSale,omitempty"`
	IsNew  bool   `json:"isNew,omitempty"`
}

// Slot is a fixed-size region of the display (data-slot on the page).
type Slot struct {
	Index      int           `json:"slot"`
	Title      string        `json:"title,omitempty"`
	Rows       []Row         `json:"rows,omitempty"`
	HTML       template.HTML `json:"html"`
	Display    string        `json:"display"`
	Visibility string        `json:"visibility,omitempty"`
}

// Clear drops the slot content
func (s *Slot) Clear() {
	s.Title = ""
	s.Rows = nil
	s.HTML = ""
}

// Visible reports whether the kiosk should show the slot
func (s *Slot) Visible() bool {
	return s.Display != DisplayNone && s.Visibility != Hidden
}

// Surface is the set of slots a session paints into
type Surface struct {
	slots map[int]*Slot
}

// NewSurface creates a surface with the given slot indices, or the four
// standard slots when none are given.
func NewSurface(indices ...int) *Surface {
	if len(indices) == 0 {
		indices = SlotOrder
	}
	s := &Surface{slots: make(map[int]*Slot, len(indices))}
	for _, i := range indices {
		s.slots[i] = &Slot{Index: i, Display: DisplayNone}
	}
	return s
}

// Slot returns the slot with the given index or nil
func (s *Surface) Slot(index int) *Slot {
	return s.slots[index]
}

// Snapshot copies the slots sorted by index
func (s *Surface) Snapshot() []Slot {
	out := make([]Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
