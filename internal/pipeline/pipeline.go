// Package pipeline sweeps a directory of report images and writes one JSON
// artifact per image. Stages communicate over channels; extraction failures
// degrade to an empty record list so a bad image never stops the run.
package pipeline

import (
	"context"
	"sync"

	"labocr/internal/extract"
	"labocr/internal/labtest"
	"labocr/internal/logger"
	"labocr/internal/ocr"
	"labocr/internal/writer"
)

type result[T any] struct {
	path string
	data T
	err  error
}

type writeResult[T any] struct {
	mu       sync.Mutex
	writes   map[string]T
	failures map[string]error
}

type Clients struct {
	extractor *extract.Extractor
	writer    *writer.JSONWriter[labtest.Result]
}

type contextKey string

const clientsKey contextKey = "pipeline_clients"

const outputDirKey contextKey = "output_dir"

// extractWorkers bounds concurrent OCR calls; recognition is CPU-bound.
const extractWorkers = 2

// Run processes every image in directory with a freshly constructed engine of
// the given type and writes per-image artifacts under outputDir.
func Run(engineType string, directory string, outputDir string) (writes map[string][]labtest.Result, failures map[string]error) {
	engine, err := ocr.NewEngine(engineType)
	if err != nil {
		logger.Errorf("failed to create OCR engine: %v", err)
		return nil, map[string]error{"engine": err}
	}
	defer func() {
		logger.Debugf("closing OCR engine")
		engine.Close()
	}()

	return RunWithEngine(engine, directory, outputDir)
}

// RunWithEngine is Run with a caller-supplied engine; the caller keeps
// ownership of the engine.
func RunWithEngine(engine ocr.Engine, directory string, outputDir string) (map[string][]labtest.Result, map[string]error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.Debugf("pipeline started with directory=%s, output=%s", directory, outputDir)

	clients := &Clients{
		extractor: extract.New(engine, ocr.DefaultConfig()),
		writer:    writer.NewJSONWriter[labtest.Result](),
	}

	ctx = context.WithValue(ctx, clientsKey, clients)
	ctx = context.WithValue(ctx, outputDirKey, outputDir)

	errChan := make(chan error, 10)                       // Buffered channel to collect stage errors
	files := make(chan string)                            // Unbuffered channel for image paths
	textChan := make(chan result[string], 2)              // Bounded buffer between OCR and parsing
	recordChan := make(chan result[[]labtest.Result], 10) // Parsed results heading to the writer
	results := &writeResult[[]labtest.Result]{
		writes:   make(map[string][]labtest.Result),
		failures: make(map[string]error),
	}

	go func() {
		defer close(files)
		logger.Debugf("starting [walkFiles] goroutine")
		walkFiles(ctx, directory, files, errChan)
		defer logger.Debugf("[walkFiles] goroutine finished")
	}()

	var wg sync.WaitGroup
	for i := 0; i < extractWorkers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			logger.Debugf("starting [extractText] worker #%d", worker+1)
			extractText(ctx, files, textChan, errChan)
			defer logger.Debugf("[extractText] worker #%d finished", worker+1)
		}(i)
	}
	go func() {
		wg.Wait()
		logger.Debugf("all [extractText] workers finished, closing textChan")
		close(textChan)
	}()

	go func() {
		defer close(recordChan)
		logger.Debugf("starting [parseRecords] goroutine")
		parseRecords(ctx, textChan, recordChan)
		defer logger.Debugf("[parseRecords] goroutine finished")
	}()

	var writeWg sync.WaitGroup
	writeWg.Add(1)
	go func() {
		defer writeWg.Done()
		logger.Debugf("starting [writeOutput] goroutine")
		writeOutput(ctx, recordChan, results, errChan)
		defer logger.Debugf("[writeOutput] goroutine finished")
	}()

	writeWg.Wait()
	logger.Debugf("[writeOutput] finished, closing errChan")
	close(errChan)
	for err := range errChan {
		if err != nil {
			logger.Debugf("error received in errChan: %v", err)
			results.addFailure("pipeline_error", err)
		}
	}

	logger.Debugf("pipeline finished")
	return results.writes, results.failures
}
