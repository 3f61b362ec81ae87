// Package web holds the server-rendered pages: the kiosk display and the
// printable menu.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"menu-signage/models"
	"menu-signage/utils"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"euro":  utils.FormatEuro,
	"clean": utils.CleanName,
}).ParseFS(files, "templates/*.html"))

// DisplayPage is the data of the kiosk page
type DisplayPage struct {
	Settings models.DisplaySettings
	Columns  int
	// Measure renders the bare layout without the client script, for the
	// headless measuring browser.
	Measure bool
	// KioskToken is set only on the page served to the kiosk, which then
	// reports its viewport and fonts with it.
	KioskToken string
}

// FooterLines returns the footer messages, none when the footer is off
func (p DisplayPage) FooterLines() []string {
	if !p.Settings.FooterEnabled {
		return nil
	}
	return p.Settings.FooterLines()
}

// FooterRepeat is how many copies of the footer text scroll by in a loop
func (p DisplayPage) FooterRepeat() []int {
	if p.Settings.FooterContinuous {
		return []int{0, 1, 2}
	}
	return []int{0}
}

// FooterDuration is the scroll animation length in seconds for the speed
// setting, estimated from the text length.
func (p DisplayPage) FooterDuration() float64 {
	speed := p.Settings.FooterSpeed
	if speed <= 0 {
		speed = 30
	}
	chars := 0
	for _, l := range p.FooterLines() {
		chars += len([]rune(l))
	}
	// about 20px per character at the footer font size, plus a screen width
	distance := float64(chars*20*len(p.FooterRepeat()) + 1920)
	return distance / float64(speed)
}

// PrintPage is the data of the printable menu
type PrintPage struct {
	Categories []models.Category
	Printed    string
}

// NewPrintPage stamps categories with the print time
func NewPrintPage(categories []models.Category, at time.Time) PrintPage {
	return PrintPage{Categories: categories, Printed: at.Format("02-01-2006 15:04")}
}

// RenderDisplay writes the kiosk page
func RenderDisplay(w io.Writer, page DisplayPage) error {
	if err := pages.ExecuteTemplate(w, "display.html", page); err != nil {
		return fmt.Errorf("failed to render display page: %w", err)
	}
	return nil
}

// RenderPrint writes the printable menu
func RenderPrint(w io.Writer, page PrintPage) error {
	if err := pages.ExecuteTemplate(w, "print.html", page); err != nil {
		return fmt.Errorf("failed to render print page: %w", err)
	}
	return nil
}
