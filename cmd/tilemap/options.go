package main

import (
	"flag"
	"log/slog"

	"github.com/eak1mov/go-tilemap/pipeline"
	"github.com/eak1mov/go-tilemap/tile"
	"github.com/schollz/progressbar/v3"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	tileSize int
	verbose  bool
}

func (c *commonFlags) setFlags(f *flag.FlagSet) {
	f.IntVar(&c.tileSize, "size", tile.DefaultSize, "Tile edge length in pixels")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *commonFlags) options() []pipeline.Option {
	if c.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	return []pipeline.Option{
		pipeline.WithTileSize(c.tileSize),
		pipeline.WithLogger(slog.Default()),
	}
}

// withProgressBar returns an option drawing a progress bar over resolved
// tiles, and a function to finish the bar.
func withProgressBar() (pipeline.Option, func()) {
	var bar *progressbar.ProgressBar
	option := pipeline.WithProgress(func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total, progressbar.OptionShowIts(), progressbar.OptionShowCount())
		}
		bar.Set(done)
	})
	finish := func() {
		if bar != nil {
			bar.Finish()
		}
	}
	return option, finish
}
