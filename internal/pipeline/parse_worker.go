package pipeline

import (
	"context"

	"labocr/internal/labtest"
	"labocr/internal/logger"
)

// parseRecords turns raw text results into formatted records. A formatter
// error marks only that file as failed; other files keep flowing.
func parseRecords(ctx context.Context, texts <-chan result[string], out chan<- result[[]labtest.Result]) {
	for res := range texts {
		if ctx.Err() != nil {
			logger.Debugf("[parseRecords]: context cancelled")
			return
		}

		records := labtest.Parse(res.data)
		formatted, err := labtest.Format(records)
		if err != nil {
			logger.Debugf("[parseRecords]: formatting failed for %s: %v", res.path, err)
			select {
			case out <- result[[]labtest.Result]{path: res.path, err: err}:
			case <-ctx.Done():
				return
			}
			continue
		}

		logger.Debugf("[parseRecords]: sending %d records for %s", len(formatted), res.path)
		select {
		case out <- result[[]labtest.Result]{path: res.path, data: formatted}:
		case <-ctx.Done():
			logger.Debugf("[parseRecords]: context done while sending records for %s", res.path)
			return
		}
	}
}
