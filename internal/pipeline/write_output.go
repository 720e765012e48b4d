package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"labocr/internal/labtest"
	"labocr/internal/logger"
)

func writeOutput(ctx context.Context,
	recordChan <-chan result[[]labtest.Result],
	results *writeResult[[]labtest.Result],
	errChan chan<- error) {
	ctxClients := ctx.Value(clientsKey)
	proc, ok := ctxClients.(*Clients)
	if !ok {
		logger.Debugf("[writeOutput]: missing clients in context")
		errChan <- fmt.Errorf("[writeOutput]: missing clients in context")
		return
	}
	jsonWriter := proc.writer

	outputDir := ctx.Value(outputDirKey).(string)

	for res := range recordChan {
		if ctx.Err() != nil {
			logger.Debugf("[writeOutput]: context cancelled")
			return
		}

		if res.err != nil {
			logger.Debugf("[writeOutput]: failure for %s: %v", res.path, res.err)
			results.addFailure(res.path, res.err)
			continue
		}

		outputPath := artifactPath(outputDir, res.path)
		logger.Debugf("[writeOutput]: writing %d records for %s", len(res.data), res.path)
		if err := jsonWriter.WriteToFile(res.data, outputPath); err != nil {
			logger.Debugf("[writeOutput]: error writing %s: %v", outputPath, err)
			results.addFailure(res.path, fmt.Errorf("writing to file %s: %w", outputPath, err))
			continue
		}

		logger.Infof("saved results to: %s", outputPath)
		results.addWrite(res.path, res.data)
	}

	logger.Debugf("[writeOutput]: closing JSON writer")
	jsonWriter.Close()
	logger.Debugf("[writeOutput]: JSON writer closed")
}

// artifactPath maps an input image path to its output artifact, e.g.
// images/report1.png -> output/report1.json.
func artifactPath(outputDir, imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+".json")
}

func (r *writeResult[T]) addWrite(path string, data T) {
	r.mu.Lock()
	r.writes[path] = data
	r.mu.Unlock()
}

func (r *writeResult[T]) addFailure(path string, err error) {
	r.mu.Lock()
	r.failures[path] = err
	r.mu.Unlock()
}
