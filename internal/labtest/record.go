// Package labtest parses recognized report text into structured test records
// and projects them onto the output schema.
package labtest

// Record is one lab test as recognized on a report line. Name and Value are
// never empty in a record the parser emits; Unit and RefRange may be "".
type Record struct {
	Name       string
	Value      string
	Unit       string
	RefRange   string
	OutOfRange bool
}
