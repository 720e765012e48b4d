package pipeline

import (
	"context"
	"fmt"

	"labocr/internal/logger"
)

// extractText runs recognition on each incoming image path. The extractor's
// outer boundary degrades decode and engine failures to empty text, so every
// file that enters this stage leaves it with a result.
func extractText(ctx context.Context, files <-chan string, texts chan<- result[string], errChan chan<- error) {
	ctxClients := ctx.Value(clientsKey)
	proc, ok := ctxClients.(*Clients)
	if !ok {
		logger.Debugf("[extractText]: missing clients in context")
		errChan <- fmt.Errorf("[extractText]: missing clients in context")
		return
	}
	extractor := proc.extractor

	for imagePath := range files {
		if ctx.Err() != nil {
			logger.Debugf("[extractText]: context cancelled")
			return
		}

		logger.Infof("processing: %s", imagePath)
		text := extractor.Text(imagePath)

		logger.Debugf("[extractText]: sending %d characters for %s", len(text), imagePath)
		select {
		case texts <- result[string]{path: imagePath, data: text}:
		case <-ctx.Done():
			logger.Debugf("[extractText]: context done while sending result for %s", imagePath)
			return
		}
	}
}
