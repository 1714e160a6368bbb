// Package panel renders the watch row projection onto a tcell screen
// region. It is a reference renderer: key dispatch and window management
// stay with the host, which maps its cursor row back to store operations
// through the row handles.
package panel

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/pcullen/watchpanel/internal/config"
	"github.com/pcullen/watchpanel/internal/watch/rows"
)

// Styles groups the panel's display styles.
type Styles struct {
	Default tcell.Style
	Label   tcell.Style
	Changed tcell.Style
	Error   tcell.Style
	Hint    tcell.Style
	Cursor  tcell.Style
}

// DefaultStyles returns the default panel styles.
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Default: base,
		Label:   base.Foreground(tcell.ColorTeal),
		Changed: base.Foreground(tcell.ColorYellow).Bold(true),
		Error:   base.Foreground(tcell.ColorRed),
		Hint:    base.Foreground(tcell.ColorGray),
		Cursor:  base.Reverse(true),
	}
}

// Panel draws watch rows into a rectangular screen region.
type Panel struct {
	screen tcell.Screen
	cfg    config.PanelConfig
	styles Styles

	mu                  sync.Mutex
	x, y, width, height int
	top                 int // first visible row index
	cursor              int // selected row index
	rowCount            int
}

// New creates a panel on the given screen covering the whole screen.
func New(screen tcell.Screen, cfg config.PanelConfig) *Panel {
	w, h := screen.Size()
	return &Panel{
		screen: screen,
		cfg:    cfg,
		styles: DefaultStyles(),
		width:  w,
		height: h,
	}
}

// SetStyles replaces the panel styles.
func (p *Panel) SetStyles(styles Styles) {
	p.mu.Lock()
	p.styles = styles
	p.mu.Unlock()
}

// SetConfig replaces the panel display configuration.
func (p *Panel) SetConfig(cfg config.PanelConfig) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
}

// SetRegion positions the panel within the screen.
func (p *Panel) SetRegion(x, y, width, height int) {
	p.mu.Lock()
	p.x, p.y, p.width, p.height = x, y, width, height
	p.mu.Unlock()
}

// MoveCursor moves the selected row by delta, clamped to the row range.
func (p *Panel) MoveCursor(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= p.rowCount {
		p.cursor = p.rowCount - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// CursorRow returns the row under the cursor.
func (p *Panel) CursorRow(rs []rows.Row) (rows.Row, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cursor < 0 || p.cursor >= len(rs) {
		return rows.Row{}, false
	}
	return rs[p.cursor], true
}

// Render draws the rows and shows the screen.
func (p *Panel) Render(rs []rows.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rowCount = len(rs)
	if p.cursor >= len(rs) {
		p.cursor = len(rs) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.scrollToCursor()

	p.clear()

	if len(rs) == 0 {
		p.putString(p.x, p.y, "no watch expressions", p.styles.Hint)
		p.screen.Show()
		return
	}

	for line := 0; line < p.height; line++ {
		idx := p.top + line
		if idx >= len(rs) {
			break
		}
		p.drawRow(p.y+line, rs[idx], idx == p.cursor)
	}
	p.screen.Show()
}

// scrollToCursor keeps the cursor line inside the visible window.
func (p *Panel) scrollToCursor() {
	if p.height <= 0 {
		return
	}
	if p.cursor < p.top {
		p.top = p.cursor
	}
	if p.cursor >= p.top+p.height {
		p.top = p.cursor - p.height + 1
	}
	if p.top < 0 {
		p.top = 0
	}
}

func (p *Panel) clear() {
	for y := p.y; y < p.y+p.height; y++ {
		for x := p.x; x < p.x+p.width; x++ {
			p.screen.SetContent(x, y, ' ', nil, p.styles.Default)
		}
	}
}

func (p *Panel) drawRow(y int, r rows.Row, selected bool) {
	labelStyle := p.styles.Label
	valueStyle := p.styles.Default
	if r.Changed {
		valueStyle = p.styles.Changed
	}
	if selected {
		labelStyle = p.styles.Cursor
		valueStyle = p.styles.Cursor
	}

	x := p.x + r.Depth*p.cfg.Indent

	x = p.putString(x, y, p.marker(r), labelStyle)
	x = p.putString(x, y, r.Label, labelStyle)

	if r.Err != nil {
		x = p.putString(x, y, " = ", labelStyle)
		p.putString(x, y, r.Err.Error(), p.styles.Error)
		return
	}

	x = p.putString(x, y, " = ", labelStyle)
	if r.ExpandHint {
		x = p.putString(x, y, p.cfg.ExpandHint, p.styles.Hint)
	} else {
		x = p.putString(x, y, r.Value, valueStyle)
	}

	if p.cfg.ShowTypes && r.Type != "" {
		p.putString(x, y, " ("+r.Type+")", p.styles.Hint)
	}
}

// marker returns the expansion marker for a row.
func (p *Panel) marker(r rows.Row) string {
	switch {
	case r.Expanded:
		return "- "
	case r.HasChildren:
		return "+ "
	default:
		return "  "
	}
}

// putString draws s at (x, y), clipped to the panel region, and returns
// the x position after the last cell written.
func (p *Panel) putString(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= p.x+p.width {
			break
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
