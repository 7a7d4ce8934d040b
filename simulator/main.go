// Command simulator runs mandelview in a desktop window instead of the
// framebuffer. Mouse and keyboard come from the window; the HTTP API is the
// same as on the device.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rook-computer/mandelview/internal/app"
	"github.com/rook-computer/mandelview/internal/app/screens"
	"github.com/rook-computer/mandelview/internal/fractal"
	"github.com/rook-computer/mandelview/internal/render"
	"github.com/rook-computer/mandelview/internal/state"
	"github.com/rook-computer/mandelview/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(web.DefaultListenAddr)
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	cfg := app.DefaultConfig()
	cfg.Width, cfg.Height = render.CanvasWidth, render.CanvasHeight
	cfg.RegisterFlags(flag.CommandLine)
	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address, empty disables; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	scale := flag.Float64("scale", 1, "initial window scale")
	flag.Parse()

	if err := cfg.ApplyEnv(flag.CommandLine); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = render.CanvasWidth, render.CanvasHeight
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	logger, closer, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Println(err)
	}
	defer closer.Close()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	store.UpdateParams(func(p *state.Params) { p.MaxIterations = cfg.MaxIterations })

	computer := fractal.NewComputer(cfg.Workers)
	computer.Logger = logger
	controller := app.NewController(store, computer, cfg.Width, cfg.Height, logger)
	controller.HUDHidden = cfg.NoHUD
	if err := controller.Init(); err != nil {
		fmt.Println("init error:", err)
		os.Exit(1)
	}

	serverCfg := web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}
	if serverCfg.ListenAddr != "" {
		server := web.NewHTTPServer(serverCfg, web.APIV1Deps{Store: store, Image: controller, Logger: logger})
		if err := server.Start(processCtx); err != nil {
			fmt.Println("server start error:", err)
			os.Exit(1)
		}
		defer server.Stop()
		fmt.Println("mandelview simulator API:", serverCfg.ControlURL("127.0.0.1")+"api/v1/")
	}

	screen := screens.NewFractalScreen(controller, logger)
	screen.NoHUD = cfg.NoHUD
	screen.ControlURL = serverCfg.ControlURL("127.0.0.1")
	defer screen.Stop()

	g := newGame(processCtx, controller, store, render.NewCanvas(cfg.Width, cfg.Height, logger), screen)

	ebiten.SetWindowTitle("mandelview simulator")
	winScale := *scale
	if winScale <= 0 {
		winScale = 1
	}
	ebiten.SetWindowSize(int(float64(cfg.Width)*winScale), int(float64(cfg.Height)*winScale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Hz)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}
