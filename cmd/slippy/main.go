// Command slippy runs the interactive slippy-map viewer.
//
// Grounded on rotblauer-catd/cmd/tiled.go's cobra.Command wiring a
// config struct into a long-running run loop, and on
// apps/hello/main.go's gio window/refresh-channel loop.
package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/spf13/cobra"

	"github.com/go-slippy/slippy/internal/appwindow"
	"github.com/go-slippy/slippy/internal/config"
	"github.com/go-slippy/slippy/internal/mapstate"
	"github.com/go-slippy/slippy/internal/provider"
	"github.com/go-slippy/slippy/internal/render"
)

var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "slippy",
	Short: "Interactive slippy-map viewer",
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog()
		run()
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "on-disk tile cache directory")
	flags.StringVar(&cfg.TilesetName, "tileset", cfg.TilesetName, "tileset name (disk-cache subdirectory)")
	flags.Int64Var(&cfg.DiskMaxBytes, "disk-max-bytes", cfg.DiskMaxBytes, "on-disk cache byte budget")
	flags.IntVar(&cfg.WindowW, "window-width", cfg.WindowW, "initial window width")
	flags.IntVar(&cfg.WindowH, "window-height", cfg.WindowH, "initial window height")
	flags.IntVar(&cfg.TileSize, "tile-size", cfg.TileSize, "pixels per tile")
	flags.Float64Var(&cfg.InitialLat, "lat", cfg.InitialLat, "initial center latitude")
	flags.Float64Var(&cfg.InitialLon, "lon", cfg.InitialLon, "initial center longitude")
	flags.IntVar(&cfg.InitialZoom, "zoom", cfg.InitialZoom, "initial zoom level")
}

// setDefaultSlog installs a text-handler slog.Logger as the process
// default, grounded on rotblauer-catd/cmd's setDefaultSlog pattern
// (cmd.tiled.go, cmd.webd.go, ...).
func setDefaultSlog() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))
}

func run() {
	logger := slog.Default()
	p := provider.DefaultCartoDB()

	s := mapstate.New(cfg, p, render.Decoder{}, systemClock{})

	go func() {
		w := new(app.Window)
		w.Option(app.Title("slippy"), app.Size(unit.Dp(cfg.WindowW), unit.Dp(cfg.WindowH)))

		view := appwindow.New(s, logger)

		var ops op.Ops
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				if e.Err != nil {
					logger.Error("window destroyed with error", "error", e.Err)
				}
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				view.Layout(gtx)
				w.Invalidate()
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
}

type systemClock struct{}

func (systemClock) NowMs() int64 { return time.Now().UnixMilli() }

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
