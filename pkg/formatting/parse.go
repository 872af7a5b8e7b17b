package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailed reports model output that holds no decodable JSON.
var ErrParseFailed = errors.New("failed to parse response")

const fence = "```"

// Parse decodes content into T. Content that is not JSON on its own is
// searched for a fenced block (```json or bare ```), and the block body is
// decoded instead.
func Parse[T any](content string) (T, error) {
	var out T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &out); err == nil {
		return out, nil
	}

	if body, ok := fenced(content); ok {
		var retry T
		if err := json.Unmarshal([]byte(body), &retry); err == nil {
			return retry, nil
		}
	}

	return out, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

func fenced(content string) (string, bool) {
	_, after, ok := strings.Cut(content, fence)
	if !ok {
		return "", false
	}
	after = strings.TrimPrefix(after, "json")
	body, _, ok := strings.Cut(after, fence)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(body), true
}
