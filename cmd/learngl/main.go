// learngl opens an OpenGL 3.3 core window and renders one of the built-in
// scenes until Escape is pressed or the window is closed.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	sceneFlag = &cli.StringFlag{
		Name:  "scene",
		Usage: "scene to render (see 'learngl list')",
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "window width in pixels",
	}
	heightFlag = &cli.IntFlag{
		Name:  "height",
		Usage: "window height in pixels",
	}
	titleFlag = &cli.StringFlag{
		Name:  "title",
		Usage: "window title",
	}
	vsyncFlag = &cli.BoolFlag{
		Name:  "vsync",
		Usage: "synchronise buffer swaps with the display refresh",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
	}

	globalFlags = []cli.Flag{configFlag, sceneFlag, widthFlag, heightFlag, titleFlag, vsyncFlag, verbosityFlag}
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "learngl",
		Usage:     "render the LearnOpenGL sample scenes",
		ArgsUsage: "[scene]",
		Flags:     globalFlags,
		Action:    runAction,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "open a window and render a scene",
				ArgsUsage: "[scene]",
				Flags:     globalFlags,
				Action:    runAction,
			},
			{
				Name:   "list",
				Usage:  "list the available scenes",
				Action: listAction,
			},
			{
				Name:      "config",
				Usage:     "print the effective configuration as TOML",
				ArgsUsage: "[scene]",
				Flags:     globalFlags,
				Action:    dumpConfigAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
