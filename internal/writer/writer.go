// Package writer persists result artifacts, one JSON array file per input
// image. Writes are serialized through a single worker goroutine so the
// pipeline stages can share one writer.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type WriteRequest[T any] struct {
	Data       []T
	OutputPath string
	ResponseCh chan error
}

type JSONWriter[T any] struct {
	queue    chan WriteRequest[T]
	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewJSONWriter[T any]() *JSONWriter[T] {
	jw := &JSONWriter[T]{
		queue:    make(chan WriteRequest[T], 100),
		shutdown: make(chan struct{}),
	}
	jw.startWorker()
	return jw
}

func (jw *JSONWriter[T]) startWorker() {
	jw.wg.Add(1)
	go func() {
		defer jw.wg.Done()
		for {
			select {
			case req := <-jw.queue:
				req.ResponseCh <- jw.writeToFileSync(req.Data, req.OutputPath)
			case <-jw.shutdown:
				return
			}
		}
	}()
}

func (jw *JSONWriter[T]) Close() {
	jw.once.Do(func() {
		close(jw.shutdown)
		jw.wg.Wait()
	})
}

// WriteToFile replaces outputPath with the JSON array rendering of data. A
// nil or empty slice produces a file containing [] rather than no file.
func (jw *JSONWriter[T]) WriteToFile(data []T, outputPath string) error {
	responseCh := make(chan error, 1)
	req := WriteRequest[T]{
		Data:       data,
		OutputPath: outputPath,
		ResponseCh: responseCh,
	}

	select {
	case <-jw.shutdown:
		return fmt.Errorf("writer is shutting down")
	default:
	}

	select {
	case jw.queue <- req:
		return <-responseCh
	case <-jw.shutdown:
		return fmt.Errorf("writer is shutting down")
	}
}

func (jw *JSONWriter[T]) writeToFileSync(data []T, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if data == nil {
		data = []T{}
	}
	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	encoded = append(encoded, '\n')

	if err := os.WriteFile(outputPath, encoded, 0644); err != nil {
		return fmt.Errorf("writing JSON file: %w", err)
	}
	return nil
}
