// File path: internal/document/jsonextract.go
package document

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ErrNoJSON reports that no JSON object could be recovered from a text blob.
var ErrNoJSON = errors.New("no JSON object found in text")

// ExtractObject recovers a JSON object from arbitrary model output. It tries a
// direct parse first, then fenced code blocks, then the largest balanced
// {...} substring.
func ExtractObject(text string) (map[string]any, error) {
	trimmed := strings.TrimSpace(text)
	if obj, ok := tryParse(trimmed); ok {
		return obj, nil
	}
	for _, match := range fencedBlock.FindAllStringSubmatch(trimmed, -1) {
		if obj, ok := tryParse(match[1]); ok {
			return obj, nil
		}
	}
	for _, candidate := range balancedObjects(trimmed) {
		if obj, ok := tryParse(candidate); ok {
			return obj, nil
		}
	}
	return nil, ErrNoJSON
}

func tryParse(candidate string) (map[string]any, bool) {
	var decoded any
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return nil, false
	}
	obj, ok := decoded.(map[string]any)
	return obj, ok
}

// balancedObjects returns every top-level balanced {...} substring, longest
// first, tracking string literals and escapes so braces inside strings do not
// unbalance the scan.
func balancedObjects(text string) []string {
	var candidates []string
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					candidates = append(candidates, text[start:i+1])
					start = -1
				}
			}
		}
	}
	sortByLengthDesc(candidates)
	return candidates
}

func sortByLengthDesc(candidates []string) {
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && len(candidates[j]) > len(candidates[j-1]); j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}
