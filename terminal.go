package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/charged-particles/sim"
)

// cellGrid maps arena coordinates onto a cols x rows character grid. The top
// row is reserved for the status line.
type cellGrid struct {
	cols, rows    int
	width, height float64
}

func (c cellGrid) cell(p r2.Vec) (int, int, bool) {
	if c.cols <= 0 || c.rows <= 1 {
		return 0, 0, false
	}
	x := int(p.X / c.width * float64(c.cols))
	y := 1 + int(p.Y/c.height*float64(c.rows-1))
	if x < 0 || x >= c.cols || y < 1 || y >= c.rows {
		return 0, 0, false
	}
	return x, y, true
}

// termRenderer draws the store into a tcell screen
type termRenderer struct {
	screen tcell.Screen
	frames int
	fps    int
	window time.Time
}

func (t *termRenderer) draw(s *sim.Simulation, paused bool) {
	t.frames++
	if now := time.Now(); now.Sub(t.window) >= time.Second {
		t.fps, t.frames, t.window = t.frames, 0, now
	}

	t.screen.Clear()
	cols, rows := t.screen.Size()
	store := s.Store()
	grid := cellGrid{cols: cols, rows: rows, width: store.Width, height: store.Height}

	// Net charge per character cell decides its glyph
	net := make(map[[2]int]float64)
	store.Each(func(i int, p sim.Particle) {
		if x, y, ok := grid.cell(p.Position); ok {
			net[[2]int{x, y}] += p.Charge
		}
	})
	for xy, q := range net {
		glyph, col := '•', tcell.ColorGray
		switch {
		case q > 0:
			glyph, col = '+', tcell.ColorRed
		case q < 0:
			glyph, col = '-', tcell.ColorBlue
		}
		t.screen.SetContent(xy[0], xy[1], glyph, nil, tcell.StyleDefault.Foreground(col))
	}

	d := s.Last()
	status := fmt.Sprintf("FPS: %d  tick %d  dt %.4f  p=(%.3g, %.3g)", t.fps, d.Tick, d.Dt, d.Momentum.X, d.Momentum.Y)
	if paused {
		status += "  [paused]"
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for i, r := range []rune(status) {
		if i >= cols {
			break
		}
		t.screen.SetContent(i, 0, r, nil, style)
	}
	t.screen.Show()
}

// pumpEvents forwards screen events to events until the screen is finalized
// or quit is closed
func pumpEvents(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// runTerminal renders into the terminal until q, Esc or Ctrl-C
func runTerminal(s *sim.Simulation, st *settings) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go pumpEvents(screen, events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(st.TPS))
	defer ticker.Stop()

	r := &termRenderer{screen: screen, window: time.Now()}
	paused := false
	last := time.Time{}
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return nil
				}
				if ev.Rune() == ' ' {
					paused = !paused
					last = time.Time{}
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			if !paused {
				elapsed := 0.0
				if !last.IsZero() {
					elapsed = now.Sub(last).Seconds()
				}
				last = now
				if _, err := s.Tick(elapsed); err != nil {
					return err
				}
			}
			r.draw(s, paused)
		}
	}
}
