package main

import (
	"flag"
	"fmt"

	"labocr/internal/config"
	"labocr/internal/pipeline"
)

type CLI struct {
	imagesDir  string
	outputDir  string
	engineType string
}

func NewCLI() *CLI {
	cli := &CLI{
		imagesDir:  "images",
		outputDir:  "output",
		engineType: "gosseract",
	}
	if cfg, err := config.Load(); err == nil {
		cli.imagesDir = cfg.ImagesDir
		cli.outputDir = cfg.OutputDir
		cli.engineType = cfg.Engine
	}
	return cli
}

func (c *CLI) Run(args []string) error {
	fs := flag.NewFlagSet("labocr", flag.ExitOnError)

	fs.StringVar(&c.imagesDir, "images", c.imagesDir, "Directory containing report images to process")
	fs.StringVar(&c.outputDir, "output", c.outputDir, "Output directory for per-image JSON results")
	fs.StringVar(&c.engineType, "engine", c.engineType, "OCR engine type (gosseract)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	return c.process()
}

func (c *CLI) process() error {
	writes, failures := pipeline.Run(c.engineType, c.imagesDir, c.outputDir)
	for path, err := range failures {
		fmt.Printf("Error processing %s: %v\n", path, err)
	}
	for path, records := range writes {
		fmt.Printf("Processed %s: %d lab tests\n", path, len(records))
	}
	fmt.Printf("\nBatch processing complete! Results saved to: %s\n", c.outputDir)
	fmt.Printf("Processed %d images\n", len(writes)+len(failures))
	return nil
}
