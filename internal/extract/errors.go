package extract

import "fmt"

// DecodeError reports input bytes that could not be interpreted as an image.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding image %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EngineError reports a failure inside the OCR engine boundary.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("ocr engine: %v", e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
