package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/color-runner/internal/config"
	"github.com/vovakirdan/color-runner/internal/core"
	"github.com/vovakirdan/color-runner/internal/game"
)

// Glyphs used on the playfield.
const (
	glyphWall     = '█'
	glyphBall     = '●'
	glyphSwitcher = '◆'
	glyphEmpty    = ' '
)

// Painter draws game snapshots into a screen buffer. The playfield is
// scaled to fit the terminal, keeping roughly its aspect ratio given that
// terminal cells are about twice as tall as they are wide.
type Painter struct {
	cfg config.Config
}

// NewPainter creates a painter for playfields of the given configuration.
func NewPainter(cfg config.Config) *Painter {
	return &Painter{cfg: cfg}
}

// Layout is the playfield area on screen, inside its border.
type Layout struct {
	Field  core.Rect
	ScaleX float64 // Playfield units per column
	ScaleY float64 // Playfield units per row
}

// Layout computes where the playfield goes on a screen of the given size.
// One row at the top is reserved for the HUD.
func (p *Painter) Layout(width, height int) Layout {
	rows := max(height-3, 1)
	pf := p.cfg.Playfield
	cols := int(math.Round(float64(rows) * pf.Width / pf.Height * 2))
	cols = core.Clamp(cols, 1, max(width-2, 1))

	x := max((width-cols-2)/2, 0) + 1
	return Layout{
		Field:  core.NewRect(x, 2, cols, rows),
		ScaleX: pf.Width / float64(cols),
		ScaleY: pf.Height / float64(rows),
	}
}

// row maps a top-down playfield coordinate to a screen row, or -1 when the
// coordinate is outside the visible field.
func (l Layout) row(y float64) int {
	if y < 0 {
		return -1
	}
	r := int(y / l.ScaleY)
	if r >= l.Field.H {
		return -1
	}
	return l.Field.Y + r
}

func (l Layout) col(x float64) int {
	c := core.Clamp(int(x/l.ScaleX), 0, l.Field.W-1)
	return l.Field.X + c
}

// Draw renders snap onto s, replacing its contents.
func (p *Painter) Draw(s *core.Screen, snap game.Snapshot) {
	s.Clear()
	l := p.Layout(s.Width(), s.Height())

	p.drawHUD(s, snap)
	s.DrawBox(core.NewRect(l.Field.X-1, l.Field.Y-1, l.Field.W+2, l.Field.H+2), core.ColorDim)

	for _, o := range snap.Obstacles {
		p.drawGate(s, l, o)
	}
	for _, sw := range snap.Switchers {
		p.drawSwitcher(s, l, sw, snap.Frame)
	}
	if snap.Phase != game.PhaseWaiting {
		p.drawBall(s, l, snap)
	}

	switch snap.Phase {
	case game.PhaseWaiting:
		p.drawWaitingCard(s, l, snap)
	case game.PhaseGameOver:
		p.drawGameOverCard(s, l, snap)
	}
}

func (p *Painter) drawHUD(s *core.Screen, snap game.Snapshot) {
	s.DrawText(1, 0, fmt.Sprintf("Score %d", snap.Score), core.ColorWhite)
	best := fmt.Sprintf("Best %d", snap.HighScore)
	s.DrawText(s.Width()-len(best)-1, 0, best, core.ColorGray)
}

// drawGate draws the two wall segments on either side of the centered gap.
func (p *Painter) drawGate(s *core.Screen, l Layout, o game.Obstacle) {
	lo, hi := o.Y, o.Y+p.cfg.Obstacles.Height
	if hi <= 0 || lo >= p.cfg.Playfield.Height {
		return
	}
	top := l.row(max(lo, 0))
	bottom := l.row(min(hi, p.cfg.Playfield.Height) - 1e-9)

	width := p.cfg.Playfield.Width
	gapLeft := l.col((width - p.cfg.Obstacles.GapWidth) / 2)
	gapRight := l.col((width + p.cfg.Obstacles.GapWidth) / 2)
	color := core.Color(o.Color)

	for y := top; y <= bottom; y++ {
		s.DrawHLine(l.Field.X, y, gapLeft-l.Field.X, glyphWall, color)
		s.DrawHLine(gapRight, y, l.Field.Right()-gapRight, glyphWall, color)
	}
}

// drawSwitcher cycles the switcher through the palette.
func (p *Painter) drawSwitcher(s *core.Screen, l Layout, sw game.Switcher, frame int) {
	y := l.row(sw.Y + p.cfg.Switchers.Size/2)
	if y < 0 {
		return
	}
	palette := p.cfg.Palette
	color := core.Color(palette[(frame/8)%len(palette)])
	s.SetCell(l.col(p.cfg.Playfield.Width/2), y, core.Cell{Rune: glyphSwitcher, Color: color})
}

func (p *Painter) drawBall(s *core.Screen, l Layout, snap game.Snapshot) {
	center := p.cfg.Playfield.Height - snap.BallY - p.cfg.Ball.Size/2
	y := l.row(core.ClampF(center, 0, p.cfg.Playfield.Height-1))
	if y < 0 {
		return
	}
	s.SetCell(l.col(p.cfg.Playfield.Width/2), y, core.Cell{Rune: glyphBall, Color: core.Color(snap.BallColor)})
}

func (p *Painter) drawWaitingCard(s *core.Screen, l Layout, snap game.Snapshot) {
	lines := []cardLine{
		{"COLOR RUNNER", core.ColorWhite},
		{"", core.ColorDefault},
		{"match the gate colors", core.ColorGray},
		{"space to start", core.ColorGray},
	}
	if snap.HighScore > 0 {
		lines = append(lines, cardLine{fmt.Sprintf("best %d", snap.HighScore), core.ColorGray})
	}
	drawCard(s, l.Field, lines)
}

func (p *Painter) drawGameOverCard(s *core.Screen, l Layout, snap game.Snapshot) {
	lines := []cardLine{
		{"GAME OVER", core.ColorWhite},
		{"", core.ColorDefault},
		{fmt.Sprintf("score %d", snap.Score), core.ColorWhite},
		{fmt.Sprintf("best %d", snap.HighScore), core.ColorGray},
	}
	if snap.Score > 0 && snap.Score == snap.HighScore {
		lines = append(lines, cardLine{"new best!", core.Color(p.cfg.Palette[0])})
	}
	lines = append(lines, cardLine{"", core.ColorDefault}, cardLine{"space to retry", core.ColorGray})
	drawCard(s, l.Field, lines)
}

type cardLine struct {
	text  string
	color core.Color
}

// drawCard draws a bordered box centered in area with one line per entry.
// When the box does not fit inside area only the text rows are cleared, so
// the card never draws over the playfield border.
func drawCard(s *core.Screen, area core.Rect, lines []cardLine) {
	w := 0
	for _, line := range lines {
		w = max(w, len([]rune(line.text)))
	}
	w += 4
	h := len(lines) + 2

	cx, cy := area.Center()
	box := core.NewRect(cx-w/2, cy-h/2, w, h)
	if area.Encloses(box) {
		s.DrawRect(box, glyphEmpty, core.ColorDefault)
		s.DrawBox(box, core.ColorGray)
	} else {
		for i := range lines {
			s.DrawHLine(area.X, box.Y+1+i, area.W, glyphEmpty, core.ColorDefault)
		}
	}

	for i, line := range lines {
		x := box.X + (w-len([]rune(line.text)))/2
		s.DrawText(x, box.Y+1+i, line.text, line.color)
	}
}
