package documents

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"
)

// docxText returns the visible text of a DOCX body, one non-blank line per
// paragraph or break.
func docxText(data []byte) (text string, err error) {
	// docconv dereferences package parts without nil checks, so a zip that
	// lacks [Content_Types].xml or its main part panics.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed docx: %v", ErrInvalidFile, r)
		}
	}()

	raw, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	var lines []string
	for line := range strings.Lines(raw) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: docx has no text", ErrInvalidFile)
	}
	return strings.Join(lines, "\n"), nil
}
