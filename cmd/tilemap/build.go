package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/eak1mov/go-tilemap/pipeline"
	"github.com/google/subcommands"
)

type buildCmd struct {
	commonFlags
	inputPath   string
	tilesetPath string
	gridPath    string
	dbPath      string
	tileDir     string
	reuse       bool
}

func (c *buildCmd) Name() string     { return "build" }
func (c *buildCmd) Synopsis() string { return "build tileset and tilemap from an image" }
func (c *buildCmd) Usage() string {
	return "tilemap build -i <image> [-s <tileset> -o <grid> -size <n> -reuse -db <path> -dir <pattern>]\n"
}
func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.setFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input image path")
	f.StringVar(&c.tilesetPath, "s", "", "Output tileset image path (default <input>tileset.png)")
	f.StringVar(&c.gridPath, "o", "", "Output grid path (default <input>.txt)")
	f.StringVar(&c.dbPath, "db", "", "Also export the catalog to a tile database")
	f.StringVar(&c.tileDir, "dir", "", "Also export each tile to a file pattern containing {n}")
	f.BoolVar(&c.reuse, "reuse", false, "Resolve against the in-memory catalog instead of the written tileset")
}

func (c *buildCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	job := pipeline.DefaultJob(c.inputPath)
	if c.tilesetPath != "" {
		job.TilesetPath = c.tilesetPath
	}
	if c.gridPath != "" {
		job.GridPath = c.gridPath
	}
	job.DBPath = c.dbPath
	job.TileDir = c.tileDir

	progress, finish := withProgressBar()
	opts := append(c.options(), pipeline.WithReuseCatalog(c.reuse), progress)

	result, err := pipeline.Build(job, opts...)
	finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("tileset has %v unique tiles of %v, saved as %v\n", result.Catalog.Len(), result.Tiles, job.TilesetPath)
	fmt.Printf("tilemap %vx%v saved as %v\n", result.Grid.Cols, result.Grid.Rows, job.GridPath)
	return subcommands.ExitSuccess
}
