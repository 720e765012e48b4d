// Package extract turns a raw report image into the text recognized on it.
// Failures stay typed inside the package; the Text boundary degrades them to
// an empty result so one bad image never aborts a batch run.
package extract

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"labocr/internal/imageproc"
	"labocr/internal/logger"
	"labocr/internal/ocr"
)

type Extractor struct {
	engine ocr.Engine
	cfg    ocr.Config
}

func New(engine ocr.Engine, cfg ocr.Config) *Extractor {
	return &Extractor{engine: engine, cfg: cfg}
}

// FromFile decodes the image at path, preprocesses it and runs recognition.
// Errors are *DecodeError or *EngineError.
func (e *Extractor) FromFile(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", &DecodeError{Source: path, Err: err}
	}
	return e.recognize(img)
}

// FromBytes is FromFile for an in-memory image buffer.
func (e *Extractor) FromBytes(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", &DecodeError{Source: "buffer", Err: err}
	}
	return e.recognize(img)
}

func (e *Extractor) recognize(img image.Image) (string, error) {
	prepared := imageproc.Prepare(img)
	text, err := e.engine.Recognize(prepared, e.cfg)
	if err != nil {
		return "", &EngineError{Err: err}
	}
	logger.Infof("ocr extraction completed: %d characters extracted", len(text))
	return text, nil
}

// Text is the legacy-compatible outer boundary: any failure is logged and
// reported as empty text.
func (e *Extractor) Text(path string) string {
	text, err := e.FromFile(path)
	if err != nil {
		logger.Errorf("ocr extraction failed for %s: %v", path, err)
		return ""
	}
	return text
}
