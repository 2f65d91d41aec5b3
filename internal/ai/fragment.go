package ai

import "fmt"

// Parse stages reported by ParseError
const (
	StageExtract  = "extract"
	StageDecode   = "decode"
	StageSchema   = "schema"
	StageValidate = "validate"
)

// ParseError describes why an oracle reply could not be used
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExtractFirstArray returns the first bracket-balanced [...] fragment of text
func ExtractFirstArray(text string) (string, bool) {
	return extractFirst(text, '[', ']')
}

// ExtractFirstObject returns the first brace-balanced {...} fragment of text
func ExtractFirstObject(text string) (string, bool) {
	return extractFirst(text, '{', '}')
}

// extractFirst scans for the first opener whose matching closer exists.
// Delimiters inside JSON strings do not count. An opener that never closes
// is skipped and the scan resumes at the next opener.
func extractFirst(text string, open, close byte) (string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != open {
			continue
		}
		if end, ok := matchClose(text, start, open, close); ok {
			return text[start : end+1], true
		}
	}
	return "", false
}

func matchClose(text string, start int, open, close byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
