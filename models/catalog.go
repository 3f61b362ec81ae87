package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Catalog is the menu as delivered to the display
type Catalog struct {
	Categories  []Category `json:"categories"`
	LastUpdated time.Time  `json:"lastUpdated,omitempty"`
	Source      string     `json:"source,omitempty"`
}

// Category is a titled group of items. Title is its identity across refreshes.
type Category struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is a single priced menu entry
type Item struct {
	Name   string `json:"name"`
	Price  Price  `json:"price"`
	OnSale bool   `json:"on_sale,omitempty"`
	IsNew  bool   `json:"is_new,omitempty"`
}

// Price keeps the raw JSON value of a price. Sources send numbers, numeric
// strings ("3,75") and now and then free text, all of which must survive to
// the formatter untouched.
type Price struct {
	raw json.RawMessage
}

// PriceOf wraps a Go value (number, string, decimal) as a Price
func PriceOf(v any) Price {
	b, err := json.Marshal(v)
	if err != nil {
		return Price{}
	}
	return Price{raw: b}
}

// String returns the price text: digits for numbers, the content for strings
func (p Price) String() string {
	if len(p.raw) == 0 {
		return ""
	}
	if p.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(p.raw, &s); err == nil {
			return s
		}
	}
	return string(p.raw)
}

// IsNumber reports whether the price was sent as a JSON number
func (p Price) IsNumber() bool {
	if len(p.raw) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(string(p.raw), 64)
	return err == nil
}

// MarshalJSON implements json.Marshaler
func (p Price) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		p.raw = nil
		return nil
	}
	p.raw = append(p.raw[:0], b...)
	return nil
}

// IsEmpty reports whether the catalog has nothing to show
func (c *Catalog) IsEmpty() bool {
	return c == nil || len(c.Categories) == 0
}
