package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/mandelview/internal/app"
	"github.com/rook-computer/mandelview/internal/fractal"
	"github.com/rook-computer/mandelview/internal/input"
	"github.com/rook-computer/mandelview/internal/render"
	"github.com/rook-computer/mandelview/internal/state"
	"github.com/rook-computer/mandelview/internal/system"
	"github.com/rook-computer/mandelview/internal/web"
)

func main() {
	fmt.Println("mandelview starting")

	// Flags
	cfg := app.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	headless := flag.Bool("headless", false, "run the control loop and API without a framebuffer")
	listen := flag.String("listen", "", "HTTP listen address, empty string disables; overrides "+web.EnvListenAddr)
	dev := flag.Bool("dev", false, "enable permissive CORS; overrides "+web.EnvDevMode)
	flag.Parse()

	if err := cfg.ApplyEnv(flag.CommandLine); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	if cfg.StdioLog != "" {
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	logger, closer, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Println(err)
	}
	defer closer.Close()

	serverCfg, err := web.DefaultServerConfigFromEnv(":80")
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			serverCfg.ListenAddr = *listen
		case "dev":
			serverCfg.DevMode = *dev
		}
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := state.NewStore()
	store.UpdateParams(func(p *state.Params) { p.MaxIterations = cfg.MaxIterations })

	var renderer render.Renderer
	if *headless {
		w, h := cfg.Width, cfg.Height
		if w == 0 || h == 0 {
			w, h = render.CanvasWidth, render.CanvasHeight
		}
		renderer = &render.NoopRenderer{Width: w, Height: h}
	} else {
		renderer = render.NewFBRenderer()
	}

	latch := &input.Latch{}
	system.StartKeyWatcher(ctx, logger, system.KeyHandlers{Recompute: latch.SetRecompute, Quit: latch.SetQuit})

	computer := fractal.NewComputer(cfg.Workers)
	computer.Logger = logger
	controller := app.NewController(store, computer, cfg.Width, cfg.Height, logger)

	var server web.Server
	if serverCfg.ListenAddr != "" {
		server = web.NewHTTPServer(serverCfg, web.APIV1Deps{Store: store, Image: controller, Logger: logger})
	}

	a := app.New(store, renderer, server, controller, latch)
	a.Logger = logger
	a.Hz = cfg.Hz
	a.NoHUD = cfg.NoHUD
	a.Debug = cfg.Debug
	a.ControlURL = serverCfg.ControlURL(system.PrimaryIPv4())

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		closer.Close()
		os.Exit(1)
	}
}
