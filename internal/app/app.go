package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/mandelview/internal/app/screens"
	"github.com/rook-computer/mandelview/internal/input"
	"github.com/rook-computer/mandelview/internal/render"
	"github.com/rook-computer/mandelview/internal/state"
	"github.com/rook-computer/mandelview/internal/system"
	"github.com/rook-computer/mandelview/internal/web"
)

type App struct {
	Store      *state.Store
	Render     render.Renderer
	Web        web.Server
	Controller *Controller
	Input      input.Source
	Logger     Logger
	Hz         int
	NoHUD      bool
	ControlURL string
	Debug      bool

	currentScreen render.Screen

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, renderer render.Renderer, webServer web.Server, controller *Controller, source input.Source) *App {
	return &App{Store: store, Render: renderer, Web: webServer, Controller: controller, Input: source, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Controller == nil {
		return errors.New("app: no controller")
	}
	if app.Input == nil {
		app.Input = &input.Latch{}
	}

	if app.Render == nil {
		app.Render = render.NewFBRenderer()
	}
	fb, onFB := app.Render.(*render.FBRenderer)
	if onFB {
		fb.Logger = app.Logger
		fb.Debug = app.Debug
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer app.Render.Stop()

	if onFB {
		// Switch console to KD_GRAPHICS to suppress hardware cursor
		if err := system.SetGraphicsModeWithLog(app.Logger); err != nil {
			app.Logger.Errorf("tty", "set graphics mode failed: %v", err)
		}
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()
	}

	if w, h := app.Controller.Size(); w == 0 || h == 0 {
		app.Controller.SetSize(app.Render.Size())
	}
	if err := app.Controller.Init(); err != nil {
		app.Logger.Errorf("app", "%v", err)
		return err
	}

	app.Controller.HUDHidden = app.NoHUD
	screen := screens.NewFractalScreen(app.Controller, app.Logger)
	screen.NoHUD = app.NoHUD
	screen.ControlURL = app.ControlURL
	if err := app.setScreen(ctx, screen); err != nil {
		return err
	}
	defer func() { _ = app.currentScreen.Stop() }()
	app.Render.RedrawWithState(app.Store.Snapshot())

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("web", "start failed: %v", err)
			return err
		}
		defer app.Web.Stop()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.Render.RunLoop(loopCtx, app.Hz, app.tickFunc()); err != nil && loopCtx.Err() == nil {
			app.Exit(err)
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	return err
}

// tickFunc samples input and advances the controller by one frame. It runs
// on the render loop goroutine, which is the control thread.
func (app *App) tickFunc() render.TickFunc {
	var prev input.Frame
	return func() (state.State, error) {
		cur := app.Input.Sample()
		if input.QuitEdge(prev, cur) {
			app.Logger.Infof("app", "quit key pressed")
			app.Exit(nil)
		}
		app.Controller.Tick(prev, cur)
		prev = cur
		return app.Store.Snapshot(), nil
	}
}

func (app *App) setScreen(ctx context.Context, screen render.Screen) error {
	if app.currentScreen != nil {
		_ = app.currentScreen.Stop()
	}
	app.currentScreen = screen
	app.Render.SetScreen(screen)
	return screen.Start(ctx)
}
