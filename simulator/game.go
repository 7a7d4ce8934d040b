package main

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rook-computer/mandelview/internal/app"
	"github.com/rook-computer/mandelview/internal/input"
	"github.com/rook-computer/mandelview/internal/render"
	"github.com/rook-computer/mandelview/internal/state"
)

// game adapts the controller to ebiten. Update and Draw run on the same
// goroutine, which makes it the control thread.
type game struct {
	ctx        context.Context
	controller *app.Controller
	store      *state.Store
	canvas     *render.Canvas
	screen     render.Screen

	tex  *ebiten.Image
	prev input.Frame
}

func newGame(ctx context.Context, controller *app.Controller, store *state.Store, canvas *render.Canvas, screen render.Screen) *game {
	return &game{ctx: ctx, controller: controller, store: store, canvas: canvas, screen: screen}
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	cur := sampleInput()
	if input.QuitEdge(g.prev, cur) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	g.controller.Tick(g.prev, cur)
	g.prev = cur
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w, h := g.canvas.Size()
	if g.tex == nil {
		g.tex = ebiten.NewImage(w, h)
	}
	g.canvas.FillBackground()
	g.screen.Draw(g.canvas, g.store.Snapshot())
	g.tex.WritePixels(g.canvas.Image().Pix)
	screen.DrawImage(g.tex, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.canvas.Size()
}

// sampleInput reads the window's pointer and keys. Cursor coordinates are
// already in canvas space because Layout returns the canvas size.
func sampleInput() input.Frame {
	x, y := ebiten.CursorPosition()
	return input.Frame{
		Pointer: input.Pointer{
			X:      x,
			Y:      y,
			Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
			Right:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
			Middle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		},
		Keys: input.Keys{
			Recompute: ebiten.IsKeyPressed(ebiten.KeyR),
			Quit:      ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyF4),
		},
	}
}
