package snippet

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultContext is the number of lines shown before and after a match.
const DefaultContext = 10

var (
	// ErrKeyNotFound is returned when no line equals "<key>:".
	ErrKeyNotFound = errors.New("key not found")
	// ErrMarkerNotFound is returned when the matched block has no
	// "source: <value>" line.
	ErrMarkerNotFound = errors.New("source marker not found")
)

// Options select what Extract looks for.
type Options struct {
	Key string
	// Context is the number of lines around the match. Must not be negative.
	Context int
	// RequireSource, when set, must appear as "source: <RequireSource>"
	// inside the block of the matched key.
	RequireSource string
}

// Result is the extracted window.
type Result struct {
	// Index is the zero-based line of the match.
	Index int
	// Start is the zero-based line of Lines[0].
	Start int
	Lines []string
}

// SplitLines splits data into lines. "\n", "\r\n" and "\r" all end a line and
// a final line terminator does not produce an empty trailing line.
func SplitLines(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Find returns the index of the first line whose trimmed text is "<key>:".
func Find(lines []string, key string) (int, error) {
	needle := key + ":"
	for i, line := range lines {
		if strings.TrimSpace(line) == needle {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no line %q", ErrKeyNotFound, needle)
}

// Window returns lines[index-context : index+context+1], clamped to the
// bounds of lines, along with the index of its first line.
func Window(lines []string, index, context int) ([]string, int) {
	// A context this large already covers the file and keeps the sums below
	// from overflowing.
	if context > len(lines) {
		context = len(lines)
	}
	lo := index - context
	if lo < 0 {
		lo = 0
	}
	hi := index + context + 1
	if hi > len(lines) {
		hi = len(lines)
	}
	return lines[lo:hi], lo
}

func indentation(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// RequireMarker checks that the block opened by lines[index] contains a line
// "source: <value>". The block is every following line indented deeper than
// lines[index]; blank lines do not end it.
func RequireMarker(lines []string, index int, value string) error {
	base := indentation(lines[index])
	marker := "source: " + value
	for _, line := range lines[index+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if indentation(line) <= base {
			break
		}
		if trimmed == marker {
			return nil
		}
	}
	return fmt.Errorf("%w: no %q inside the block", ErrMarkerNotFound, marker)
}

// Extract finds opts.Key in lines and returns the surrounding window. When
// opts.RequireSource is set and the marker is missing, the window is still
// returned together with an error wrapping ErrMarkerNotFound.
func Extract(lines []string, opts Options) (Result, error) {
	if opts.Context < 0 {
		return Result{}, fmt.Errorf("context must not be negative, got %d", opts.Context)
	}
	index, err := Find(lines, opts.Key)
	if err != nil {
		return Result{}, err
	}

	window, start := Window(lines, index, opts.Context)
	result := Result{Index: index, Start: start, Lines: window}

	if opts.RequireSource != "" {
		if err := RequireMarker(lines, index, opts.RequireSource); err != nil {
			return result, err
		}
	}
	return result, nil
}
