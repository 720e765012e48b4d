package ocr

import "fmt"

// NewEngine builds the OCR engine for the given type. The empty string picks
// the default gosseract engine.
func NewEngine(engineType string) (Engine, error) {
	switch engineType {
	case "gosseract", "":
		return NewGosseractEngine()
	default:
		return nil, fmt.Errorf("unknown engine type: %s", engineType)
	}
}
