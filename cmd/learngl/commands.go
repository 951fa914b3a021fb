package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/kjkrol/learngl/internal/config"
	"github.com/kjkrol/learngl/internal/gldriver"
	"github.com/kjkrol/learngl/internal/logging"
	"github.com/kjkrol/learngl/internal/scene"
	"github.com/kjkrol/learngl/pkg/gfx"
	"github.com/urfave/cli/v2"
)

// loadConfig applies, in order, the defaults, the --config file, a
// positional scene argument and the remaining flags.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return cfg, err
	}
	if ctx.Args().Present() {
		cfg.Render.Scene = ctx.Args().First()
	}
	if ctx.IsSet(sceneFlag.Name) {
		cfg.Render.Scene = ctx.String(sceneFlag.Name)
	}
	if ctx.IsSet(widthFlag.Name) {
		cfg.Window.Width = ctx.Int(widthFlag.Name)
	}
	if ctx.IsSet(heightFlag.Name) {
		cfg.Window.Height = ctx.Int(heightFlag.Name)
	}
	if ctx.IsSet(titleFlag.Name) {
		cfg.Window.Title = ctx.String(titleFlag.Name)
	}
	if ctx.IsSet(vsyncFlag.Name) {
		cfg.Window.VSync = ctx.Bool(vsyncFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	return cfg, cfg.Validate()
}

func runAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := logging.New(ctx.App.ErrWriter, cfg.Log.Verbosity)
	s, _ := scene.Lookup(cfg.Render.Scene)

	window, err := gfx.NewWindow(cfg.WindowConfig(), logger)
	if err != nil {
		return err
	}
	defer window.Close()

	driver, version, err := gldriver.Init()
	if err != nil {
		return err
	}
	logger.Info("OpenGL context ready", "version", version)

	renderer, err := scene.NewRenderer(s, driver, cfg.ClearColor(), logger)
	if err != nil {
		return err
	}
	window.SetRenderer(renderer)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("rendering", "scene", s.Name, "width", cfg.Window.Width, "height", cfg.Window.Height)
	if err := window.Run(runCtx, nil); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func listAction(ctx *cli.Context) error {
	name := color.New(color.FgCyan, color.Bold)
	for _, s := range scene.All() {
		fmt.Fprintf(ctx.App.Writer, "%s\t%s\n", name.Sprint(s.Name), s.Description)
	}
	return nil
}

func dumpConfigAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return config.Dump(ctx.App.Writer, cfg)
}
