package labtest

import (
	"math"
	"strconv"
	"strings"

	"labocr/internal/logger"
)

// Parse scans recognized text line by line and returns one Record per line
// that carries a test result. Lines that do not fit the grammar are skipped;
// Parse never fails and preserves line order.
//
// The per-line grammar, applied to the trimmed line: a free-text name up to a
// run of spaces or colons, a numeric value token, an optional unit token
// (letters, '%', '/'), and an optional low-high reference range, optionally
// parenthesized. Trailing text after a match is ignored.
func Parse(text string) []Record {
	var records []Record
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec, ok := parseLine(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	logger.Infof("parsed %d lab tests from text", len(records))
	return records
}

func parseLine(line string) (Record, bool) {
	nameEnd, valueStart, ok := splitNameValue(line)
	if !ok {
		logger.Debugf("skipped line, no value token: %q", line)
		return Record{}, false
	}

	name := strings.ToUpper(strings.TrimSpace(line[:nameEnd]))

	i := valueStart
	for i < len(line) && isValueChar(line[i]) {
		i++
	}
	value := line[valueStart:i]

	for i < len(line) && isSpace(line[i]) {
		i++
	}
	unitStart := i
	for i < len(line) && isUnitChar(line[i]) {
		i++
	}
	unit := line[unitStart:i]

	for i < len(line) && isSpace(line[i]) {
		i++
	}
	if i < len(line) && line[i] == '(' {
		i++
	}
	refRange := scanRange(line[i:])

	if name == "" || value == "" {
		logger.Warnf("skipped line due to empty name or value: %q", line)
		return Record{}, false
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(floatValue, 0) {
		logger.Warnf("skipped line due to invalid value: %q", line)
		return Record{}, false
	}

	return Record{
		Name:       name,
		Value:      value,
		Unit:       unit,
		RefRange:   refRange,
		OutOfRange: outOfRange(floatValue, refRange),
	}, true
}

// splitNameValue locates the first run of separators followed by a numeric
// token. Returns the name end, the value start and whether a split exists.
func splitNameValue(line string) (int, int, bool) {
	i := 0
	for i < len(line) {
		if !isSep(line[i]) {
			i++
			continue
		}
		j := i
		for j < len(line) && isSep(line[j]) {
			j++
		}
		if j < len(line) && isValueChar(line[j]) {
			return i, j, true
		}
		i = j
	}
	return 0, 0, false
}

// scanRange reads a "low-high" token from the start of s, or "" when s does
// not open with a complete range.
func scanRange(s string) string {
	i := 0
	for i < len(s) && isValueChar(s[i]) {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != '-' {
		return ""
	}
	j := i + 1
	for j < len(s) && isValueChar(s[j]) {
		j++
	}
	if j == i+1 {
		return ""
	}
	return s[:j]
}

// outOfRange evaluates the inclusive low-high bound. An absent or partially
// non-numeric range counts as in range: the policy prefers a false negative
// over flagging a value against an ambiguous bound.
func outOfRange(value float64, refRange string) bool {
	if refRange == "" {
		return false
	}
	parts := strings.SplitN(refRange, "-", 2)
	if len(parts) != 2 {
		return false
	}
	low, errLow := strconv.ParseFloat(parts[0], 64)
	high, errHigh := strconv.ParseFloat(parts[1], 64)
	if errLow != nil || errHigh != nil {
		return false
	}
	return value < low || value > high
}

func isSep(c byte) bool {
	return c == ' ' || c == '\t' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isValueChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

func isUnitChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '%' || c == '/'
}
