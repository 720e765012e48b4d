package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"labocr/internal/logger"
)

func walkFiles(ctx context.Context, directory string, results chan<- string, errChan chan<- error) {
	files, err := os.ReadDir(directory)
	if err != nil {
		logger.Debugf("[walkFiles]: failed to read directory %s: %v", directory, err)
		errChan <- fmt.Errorf("[walkFiles]: reading directory %s: %w", directory, err)
		return
	}

	for _, file := range files {
		if ctx.Err() != nil {
			logger.Debugf("[walkFiles]: context cancelled")
			return
		}

		fileName := file.Name()
		if file.IsDir() || !isImageFile(fileName) {
			continue
		}
		fullPath := filepath.Join(directory, fileName)
		logger.Debugf("[walkFiles]: sending file %s", fullPath)
		select {
		case results <- fullPath:
		case <-ctx.Done():
			logger.Debugf("[walkFiles]: context done while sending file %s", fullPath)
			return
		}
	}
}

func isImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}
