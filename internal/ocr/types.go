package ocr

import "image"

// PageSegMode mirrors tesseract's page segmentation modes so callers do not
// depend on a concrete engine binding.
type PageSegMode int

const (
	PSMAuto        PageSegMode = 3 // fully automatic layout analysis
	PSMSingleBlock PageSegMode = 6 // single uniform block of text
	PSMSingleLine  PageSegMode = 7
)

// Config is the recognition tuning passed with every call. It is a value, not
// process-wide engine state, so engines stay reentrant under concurrent use.
type Config struct {
	PageSegMode PageSegMode
	Language    string
}

// DefaultConfig suits the binarized single-block images produced by the
// preprocessor. The engine mode itself stays at tesseract's default
// neural-plus-legacy pipeline.
func DefaultConfig() Config {
	return Config{
		PageSegMode: PSMSingleBlock,
		Language:    "eng",
	}
}

// Engine recognizes text on an already preprocessed image. Implementations
// hold no state across calls.
type Engine interface {
	Recognize(img image.Image, cfg Config) (string, error)
	Close() error
}
