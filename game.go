package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/charged-particles/sim"
)

// Display constants
const (
	MinZoom       = 0.1
	HeatmapStep   = 24.0 // Arena units per heatmap sample
	HeatmapCeil   = 6.0  // log10 of the field magnitude drawn at full intensity
	MinDrawRadius = 1.0
)

// Visual modes
const (
	visParticles = iota
	visField
	visTrails
	visModes
)

var hudColor = color.RGBA{0, 200, 0, 255}

var hudFace = text.NewGoXFace(basicfont.Face7x13)

const hudLineSpacing = 16

// Game adapts a simulation to Ebitengine: Update drives one tick per frame
// with the measured frame time, Draw renders the store
type Game struct {
	sim        *sim.Simulation
	lastUpdate time.Time
	paused     bool
	visMode    int
	showHUD    bool
	zoom       float64
	camX, camY float64 // Camera pan
	prevMX     float64
	prevMY     float64
	trailLen   int
	trails     [][]r2.Vec // Recent positions per particle
}

// NewGame wraps s for display
func NewGame(s *sim.Simulation, trailLen int) *Game {
	return &Game{
		sim:      s,
		showHUD:  true,
		zoom:     1,
		trailLen: trailLen,
	}
}

// runWindow opens the window and blocks until it closes or a tick fails
func runWindow(s *sim.Simulation, st *settings) error {
	c := s.Config()
	ebiten.SetWindowSize(int(c.Width*st.Scale), int(c.Height*st.Scale))
	ebiten.SetWindowTitle("Charged Particle Simulation")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(st.TPS)
	return ebiten.RunGame(NewGame(s, st.Trail))
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	g.handleInput()

	now := time.Now()
	if g.paused {
		g.lastUpdate = time.Time{}
		return nil
	}
	// Elapsed time of the previous frame, zero on the first one
	elapsed := 0.0
	if !g.lastUpdate.IsZero() {
		elapsed = now.Sub(g.lastUpdate).Seconds()
	}
	g.lastUpdate = now

	if _, err := g.sim.Tick(elapsed); err != nil {
		log.Printf("halting: %v", err)
		return err
	}
	if g.visMode == visTrails {
		g.recordTrails()
	}
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	store := g.sim.Store()

	switch g.visMode {
	case visParticles:
		r := float32(math.Max(store.Radius*g.zoom, MinDrawRadius))
		store.Each(func(i int, p sim.Particle) {
			sx, sy := g.worldToScreen(p.Position)
			vector.DrawFilledCircle(screen, sx, sy, r, chargeColor(p.Charge), true)
		})
	case visField:
		g.drawField(screen, store)
	case visTrails:
		store.Each(func(i int, p sim.Particle) {
			if i >= len(g.trails) {
				return
			}
			col := chargeColor(p.Charge)
			trail := g.trails[i]
			for k := 1; k < len(trail); k++ {
				x0, y0 := g.worldToScreen(trail[k-1])
				x1, y1 := g.worldToScreen(trail[k])
				vector.StrokeLine(screen, x0, y0, x1, y1, 1, col, true)
			}
		})
	}

	if g.showHUD {
		g.drawHUD(screen)
	}
}

// Layout returns the arena size so the world maps 1:1 onto the screen
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	c := g.sim.Config()
	return int(c.Width), int(c.Height)
}

// handleInput processes keyboard and mouse input
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.visMode = (g.visMode + 1) % visModes
		g.trails = nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		seed := time.Now().UnixNano()
		if err := g.sim.Reset(seed); err != nil {
			log.Printf("reset with seed %d failed: %v", seed, err)
		} else {
			log.Printf("reset with seed %d", seed)
		}
		g.trails = nil
		g.lastUpdate = time.Time{}
	}

	// Zoom
	_, wheelY := ebiten.Wheel()
	g.zoom = math.Max(MinZoom, g.zoom+wheelY*0.1)

	// Pan (drag)
	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.camX -= (float64(mx) - g.prevMX) / g.zoom
		g.camY -= (float64(my) - g.prevMY) / g.zoom
	}
	g.prevMX = float64(mx)
	g.prevMY = float64(my)
}

// recordTrails appends the current positions, keeping trailLen of them
func (g *Game) recordTrails() {
	store := g.sim.Store()
	if len(g.trails) != store.Len() {
		g.trails = make([][]r2.Vec, store.Len())
	}
	store.Each(func(i int, p sim.Particle) {
		g.trails[i] = append(g.trails[i], p.Position)
		if len(g.trails[i]) > g.trailLen {
			g.trails[i] = g.trails[i][1:]
		}
	})
}

// drawField paints the magnitude of the Coulomb field on a coarse lattice
func (g *Game) drawField(screen *ebiten.Image, store *sim.Store) {
	size := float32(HeatmapStep * g.zoom)
	for x := 0.0; x < store.Width; x += HeatmapStep {
		for y := 0.0; y < store.Height; y += HeatmapStep {
			centre := r2.Vec{X: x + HeatmapStep/2, Y: y + HeatmapStep/2}
			mag := r2.Norm(g.sim.FieldAt(centre))
			sx, sy := g.worldToScreen(r2.Vec{X: x, Y: y})
			vector.DrawFilledRect(screen, sx, sy, size, size, heatColor(fieldIntensity(mag)), false)
		}
	}
}

// fieldIntensity maps a field magnitude onto [0, 1] on a log scale
func fieldIntensity(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, math.Log10(1+mag)/HeatmapCeil))
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	d := g.sim.Last()
	status := ""
	if g.paused {
		status = "  [paused]"
	}
	hud := fmt.Sprintf("FPS: %.0f  TPS: %.0f%s\nTick: %d  dt: %.4f\nMomentum: (%.3g, %.3g)\nKinetic energy: %.4g",
		ebiten.ActualFPS(), ebiten.ActualTPS(), status, d.Tick, d.Dt, d.Momentum.X, d.Momentum.Y, d.KineticEnergy)
	op := &text.DrawOptions{}
	op.GeoM.Translate(10, 8)
	op.ColorScale.ScaleWithColor(hudColor)
	op.LineSpacing = hudLineSpacing
	text.Draw(screen, hud, hudFace, op)
}

// worldToScreen applies the camera
func (g *Game) worldToScreen(p r2.Vec) (float32, float32) {
	return float32((p.X - g.camX) * g.zoom), float32((p.Y - g.camY) * g.zoom)
}
