package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// GosseractEngine recognizes text through the tesseract library. A fresh
// client is created per call; tesseract clients are not safe to share across
// goroutines.
type GosseractEngine struct{}

func NewGosseractEngine() (*GosseractEngine, error) {
	return &GosseractEngine{}, nil
}

func (g *GosseractEngine) Recognize(img image.Image, cfg Config) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encoding image for recognition: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if cfg.Language != "" {
		if err := client.SetLanguage(cfg.Language); err != nil {
			return "", fmt.Errorf("setting language %q: %w", cfg.Language, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return text, nil
}

func (g *GosseractEngine) Close() error {
	return nil
}
