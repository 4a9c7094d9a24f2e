package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-tilemap/pipeline"
	"github.com/google/subcommands"
)

type resolveCmd struct {
	commonFlags
	inputPath     string
	referencePath string
	gridPath      string
}

func (c *resolveCmd) Name() string     { return "resolve" }
func (c *resolveCmd) Synopsis() string { return "build tilemap of an image against an existing tileset" }
func (c *resolveCmd) Usage() string {
	return "tilemap resolve -i <image> -ref <tileset|db|pattern> [-o <grid> -size <n>]\n"
}
func (c *resolveCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.setFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input image path")
	f.StringVar(&c.referencePath, "ref", "", "Reference tileset image, tile database or tile file pattern")
	f.StringVar(&c.gridPath, "o", "", "Output grid path (default <input>.txt)")
}

func (c *resolveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" || c.referencePath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	gridPath := c.gridPath
	if gridPath == "" {
		gridPath = strings.TrimSuffix(c.inputPath, filepath.Ext(c.inputPath)) + ".txt"
	}

	ref, err := pipeline.LoadReference(c.referencePath, c.tileSize)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	progress, finish := withProgressBar()
	opts := append(c.options(), pipeline.WithTileSize(ref.TileSize()), progress)

	result, err := pipeline.Resolve(c.inputPath, gridPath, ref, opts...)
	finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("tilemap %vx%v saved as %v, %v of %v tiles not in reference\n", result.Grid.Cols, result.Grid.Rows, gridPath, result.Misses, result.Tiles)
	return subcommands.ExitSuccess
}
