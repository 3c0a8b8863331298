package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	tabHeight   = 22.0
	titleHeight = 24.0
	margin      = 10.0
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	SetY(y float64)
	Caption() string
}

// SliderWrapper wraps Slider to implement UIWidget
type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 { return s.H + 25 }
func (s *SliderWrapper) SetY(y float64)     { s.Y = y }

func (s *SliderWrapper) Caption() string {
	if s.ValueText == "" {
		return s.Label
	}
	return fmt.Sprintf("%s: %s", s.Label, s.ValueText)
}

// CheckboxWrapper wraps Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 { return c.Size + 22 }
func (c *CheckboxWrapper) SetY(y float64)     { c.Y = y }
func (c *CheckboxWrapper) Caption() string    { return c.Label }

// TabPage is the widget list shown under one tab.
type TabPage struct {
	Title   string
	Widgets []UIWidget
}

// TabPanel is a side panel with one tab per page. Only the selected page
// receives input and is drawn.
type TabPanel struct {
	X, Y          float64
	Width, Height float64
	Title         string

	pages    []*TabPage
	tabs     []*Button
	selected int
	// OnSelect is called with the page index when a tab header is clicked.
	OnSelect func(index int)

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA
}

// NewTabPanel creates an empty panel.
func NewTabPanel(x, y, width, height float64, title string) *TabPanel {
	return &TabPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddPage appends a tab and returns its page. Tab headers share the panel width.
func (p *TabPanel) AddPage(title string) *TabPage {
	page := &TabPage{Title: title}
	index := len(p.pages)
	p.pages = append(p.pages, page)
	p.tabs = append(p.tabs, NewButton(0, p.Y+titleHeight, 0, tabHeight, title, func() { p.click(index) }))

	w := (p.Width - 2*margin) / float64(len(p.tabs))
	for i, tab := range p.tabs {
		tab.X = p.X + margin + float64(i)*w
		tab.Width = w
	}
	p.refreshTabs()
	return page
}

func (p *TabPanel) click(index int) {
	if index == p.selected {
		return
	}
	p.Select(index)
	if p.OnSelect != nil {
		p.OnSelect(index)
	}
}

// Select shows page index without calling OnSelect.
func (p *TabPanel) Select(index int) {
	if index < 0 || index >= len(p.pages) {
		return
	}
	p.selected = index
	p.refreshTabs()
}

// Selected returns the index of the visible page.
func (p *TabPanel) Selected() int { return p.selected }

func (p *TabPanel) refreshTabs() {
	for i, tab := range p.tabs {
		tab.Active = i == p.selected
	}
}

func (p *TabPanel) contentTop() float64 {
	return p.Y + titleHeight + tabHeight + margin
}

// AddSlider adds a slider widget to the page.
func (pg *TabPage) AddSlider(p *TabPanel, label string, min, max, pos int) *Slider {
	slider := NewSlider(p.X+margin, 0, p.Width-2*margin, label, min, max, pos)
	pg.Widgets = append(pg.Widgets, &SliderWrapper{slider})
	p.layout(pg)
	return slider
}

// AddCheckbox adds a checkbox widget to the page.
func (pg *TabPage) AddCheckbox(p *TabPanel, label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+margin, 0, label, value)
	pg.Widgets = append(pg.Widgets, &CheckboxWrapper{checkbox})
	p.layout(pg)
	return checkbox
}

// layout stacks the widgets of pg under the tab row, each below its caption.
func (p *TabPanel) layout(pg *TabPage) {
	y := p.contentTop()
	for _, w := range pg.Widgets {
		w.SetY(y + 15)
		y += w.GetHeight()
	}
}

// Update handles input for the tab row and the visible page.
func (p *TabPanel) Update() {
	for _, tab := range p.tabs {
		tab.Update()
	}
	if len(p.pages) == 0 {
		return
	}
	for _, w := range p.pages[p.selected].Widgets {
		w.Update()
	}
}

// Draw renders the panel, the tab row and the visible page.
func (p *TabPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)

	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	for _, tab := range p.tabs {
		tab.Draw(screen)
	}
	if len(p.pages) == 0 {
		return
	}

	y := p.contentTop()
	for _, w := range p.pages[p.selected].Widgets {
		if y+w.GetHeight() > p.Y+p.Height {
			break
		}
		ebitenutil.DebugPrintAt(screen, w.Caption(), int(p.X+margin), int(y))
		w.Draw(screen)
		y += w.GetHeight()
	}
}
