package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/NoahDarveau/MarkovMario/internal/engine"
	"github.com/NoahDarveau/MarkovMario/pkg/level"
)

// LevelSource hands out numbered levels.
type LevelSource interface {
	GenerateLevel(n int) (*engine.Level, error)
}

// Preview is the interactive level viewer: arrows scroll, r regenerates, q quits.
type Preview struct {
	renderer *Renderer
	source   LevelSource

	number int
	level  *engine.Level
	offset int
	err    error
}

func NewPreview(screen tcell.Screen, source LevelSource, first int) *Preview {
	return &Preview{
		renderer: New(screen),
		source:   source,
		number:   first,
	}
}

// Load generates the current level number and resets the scroll.
func (p *Preview) Load() error {
	lvl, err := p.source.GenerateLevel(p.number)
	p.err = err
	if err != nil {
		return err
	}
	p.level = lvl
	p.offset = 0
	return nil
}

func (p *Preview) Number() int { return p.number }

func (p *Preview) Offset() int { return p.offset }

// HandleKey applies one key press. It reports false when the viewer should close.
func (p *Preview) HandleKey(ev *tcell.EventKey) bool {
	page := p.renderer.ViewWidth()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		p.scroll(-1)
	case tcell.KeyRight:
		p.scroll(1)
	case tcell.KeyPgUp, tcell.KeyHome:
		p.scroll(-page)
	case tcell.KeyPgDn, tcell.KeyEnd:
		p.scroll(page)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'h':
			p.scroll(-1)
		case 'l':
			p.scroll(1)
		case 'r', 'n':
			p.number++
			_ = p.Load()
		case 'p':
			if p.number > 0 {
				p.number--
				_ = p.Load()
			}
		}
	}
	return true
}

func (p *Preview) scroll(delta int) {
	if p.level == nil {
		return
	}
	p.offset = ClampOffset(p.offset+delta, p.level.Grid.Width(), p.renderer.ViewWidth())
}

func (p *Preview) status() string {
	if p.err != nil {
		return fmt.Sprintf(" level %d: %v | r next  q quit", p.number, p.err)
	}
	if p.level == nil {
		return fmt.Sprintf(" level %d not loaded | r load  q quit", p.number)
	}
	rep := p.level.Report
	return fmt.Sprintf(" level %d  seed %d  %s  cols %d/%d  x=%d  helpers %d  fallbacks %d | <-/-> scroll  r next  p prev  q quit",
		p.number, rep.Seed, rep.Policy, rep.Columns, rep.Width, p.offset, rep.Helpers, rep.Fallbacks)
}

// Draw renders the current state.
func (p *Preview) Draw() {
	if p.level == nil {
		p.renderer.Draw(level.New(0, 0), 0, p.status())
		return
	}
	p.renderer.Draw(p.level.Grid, p.offset, p.status())
}

// Run loops over screen events until the user quits.
func (p *Preview) Run() {
	p.Draw()
	for {
		switch ev := p.renderer.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if !p.HandleKey(ev) {
				return
			}
		case *tcell.EventResize:
			p.renderer.screen.Sync()
			p.scroll(0)
		}
		p.Draw()
	}
}
