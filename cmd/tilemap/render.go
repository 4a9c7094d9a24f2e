package main

import (
	"context"
	"flag"
	"log"

	"github.com/eak1mov/go-tilemap/pipeline"
	"github.com/google/subcommands"
)

type renderCmd struct {
	commonFlags
	referencePath string
	gridPath      string
	outputPath    string
}

func (c *renderCmd) Name() string     { return "render" }
func (c *renderCmd) Synopsis() string { return "reconstruct an image from tileset and tilemap" }
func (c *renderCmd) Usage() string {
	return "tilemap render -s <tileset|db|pattern> -g <grid> -o <image> [-size <n>]\n"
}
func (c *renderCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.setFlags(f)
	f.StringVar(&c.referencePath, "s", "", "Tileset image, tile database or tile file pattern")
	f.StringVar(&c.gridPath, "g", "", "Input grid path")
	f.StringVar(&c.outputPath, "o", "", "Output image path")
}

func (c *renderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.referencePath == "" || c.gridPath == "" || c.outputPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	if err := pipeline.Render(c.referencePath, c.gridPath, c.outputPath, c.options()...); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
